package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/appointment-scheduler/internal/auth"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

// rotas que continuam abertas em manutenção
var maintenanceBypass = []string{
	"/health",
	"/api/admin",
	"/api/auth",
	"/api/payments/webhook",
}

// Maintenance devolve 503 para a API pública quando a configuração
// "maintenance" está ligada. Admins autenticados passam sempre.
func Maintenance(settings schedule.Provider, tokens *auth.Tokens, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := settings.Load(c.Request.Context())
		if err != nil {
			// sem configuração a API segue aberta
			log.Warn("maintenance check failed", zap.Error(err))
			c.Next()
			return
		}
		if !cfg.Maintenance() {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		for _, prefix := range maintenanceBypass {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		if bearerRole(c, tokens) == models.RoleAdmin {
			c.Next()
			return
		}

		c.Header("Retry-After", "300")
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error_code": "maintenance",
			"message":    "Le service est en maintenance. Merci de réessayer plus tard.",
		})
	}
}

// bearerRole lê o papel de um token de sessão válido, se houver.
func bearerRole(c *gin.Context, tokens *auth.Tokens) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	claims, err := tokens.Parse(parts[1])
	if err != nil {
		return ""
	}
	if aud, _ := claims.GetAudience(); len(aud) > 0 {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}
