package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

const (
	userTokenTTL  = 24 * time.Hour
	QuoteValidity = 5 * time.Minute
	quoteAudience = "cancel-quote"
)

var ErrInvalidQuote = errors.New("auth: invalid cancel quote")

// Tokens assina os JWT da API (HS256): sessão do usuário e o snapshot do
// orçamento de cancelamento.
type Tokens struct {
	secret []byte
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

func (t *Tokens) Secret() []byte {
	return t.secret
}

func (t *Tokens) IssueUser(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  now.Add(userTokenTTL).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse valida assinatura e expiração e devolve as claims.
func (t *Tokens) Parse(tokenString string) (jwt.MapClaims, error) {
	return t.parse(tokenString)
}

func (t *Tokens) parse(tokenString string, opts ...jwt.ParserOption) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return t.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// ======================================================
// Orçamento de cancelamento
// ======================================================

func (t *Tokens) IssueCancelQuote(appointmentID uint, quotedAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"aud":       quoteAudience,
		"apt":       appointmentID,
		"quoted_at": quotedAt.UnixMilli(),
		"exp":       quotedAt.Add(QuoteValidity).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// VerifyCancelQuote devolve o instante do orçamento se o token for deste
// agendamento e ainda estiver válido.
func (t *Tokens) VerifyCancelQuote(tokenString string, appointmentID uint, now time.Time) (time.Time, error) {
	// exp é conferido contra o mesmo relógio do cancelamento
	claims, err := t.parse(tokenString,
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithAudience(quoteAudience),
	)
	if err != nil {
		return time.Time{}, ErrInvalidQuote
	}

	apt, ok := claims["apt"].(float64)
	if !ok || uint(apt) != appointmentID {
		return time.Time{}, ErrInvalidQuote
	}

	ms, ok := claims["quoted_at"].(float64)
	if !ok {
		return time.Time{}, ErrInvalidQuote
	}

	quotedAt := time.UnixMilli(int64(ms))
	if quotedAt.After(now) || now.Sub(quotedAt) > QuoteValidity {
		return time.Time{}, ErrInvalidQuote
	}
	return quotedAt, nil
}
