package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/appointment-scheduler/internal/auth"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
	"github.com/BruksfildServices01/appointment-scheduler/internal/validators"
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

type UserLookup interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type AuthHandler struct {
	users  UserStore
	lookup UserLookup
	tokens *auth.Tokens
	log    *zap.Logger

	// checagem de DNS do domínio do e-mail
	emailOK func(ctx context.Context, email string) bool
}

func NewAuthHandler(users UserStore, lookup UserLookup, tokens *auth.Tokens, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:   users,
		lookup:  lookup,
		tokens:  tokens,
		log:     log,
		emailOK: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.emailOK(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "Le domaine de l'adresse e-mail ne semble pas valide.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleUser,
	}
	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		httperr.Render(c, h.log, err)
		return
	}

	token, err := h.tokens.IssueUser(&user)
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userJSON(&user),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if httperr.IsBusiness(err, "user_not_found") {
		httperr.Unauthorized(c, "invalid_credentials", "Identifiants incorrects.")
		return
	}
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Identifiants incorrects.")
		return
	}

	token, err := h.tokens.IssueUser(user)
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userJSON(user),
		"token": token,
	})
}

// GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.lookup.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}
