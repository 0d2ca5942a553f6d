package httperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindAuthorization   Kind = "authorization"
	KindStateConflict   Kind = "state_conflict"
	KindPolicyViolation Kind = "policy_violation"
)

// BusinessError é uma recusa de regra de negócio. Nunca é reprocessada
// automaticamente; o handler só a renderiza.
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func (e BusinessError) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthorization:
		return http.StatusForbidden
	case KindStateConflict:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

// ======================================================
// Códigos conhecidos
// ======================================================

var kinds = map[string]Kind{
	"slot_taken":            KindStateConflict,
	"slot_unavailable":      KindStateConflict,
	"already_canceled":      KindStateConflict,
	"already_confirmed":     KindStateConflict,
	"invalid_state":         KindStateConflict,
	"appointment_past":      KindStateConflict,
	"notice_period":         KindPolicyViolation,
	"prerequisite_missing":  KindPolicyViolation,
	"type_not_found":        KindNotFound,
	"appointment_not_found": KindNotFound,
	"user_not_found":        KindNotFound,
	"payment_not_found":     KindNotFound,
	"forbidden":             KindAuthorization,
}

var messages = map[string]string{
	"slot_taken":            "Ce créneau vient d'être réservé.",
	"slot_unavailable":      "Ce créneau n'est pas disponible.",
	"already_canceled":      "Ce rendez-vous est déjà annulé.",
	"already_confirmed":     "Ce rendez-vous est déjà confirmé.",
	"invalid_state":         "Action impossible dans l'état actuel du rendez-vous.",
	"appointment_past":      "Ce rendez-vous est déjà passé.",
	"notice_period":         "Le délai minimum de prévenance n'est pas respecté.",
	"prerequisite_missing":  "Une prestation préalable est requise.",
	"type_not_found":        "Prestation introuvable.",
	"appointment_not_found": "Rendez-vous introuvable.",
	"user_not_found":        "Utilisateur introuvable.",
	"forbidden":             "Accès refusé.",
}

// ErrBusiness cria o erro a partir do código; o tipo vem da tabela e
// códigos desconhecidos são tratados como validação.
func ErrBusiness(code string) error {
	kind, ok := kinds[code]
	if !ok {
		kind = KindValidation
	}
	return BusinessError{Kind: kind, Code: code, Message: messages[code]}
}

func ErrValidation(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
