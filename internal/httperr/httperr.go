package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// Render traduz erros de use case para a resposta HTTP. Erros que não são
// de negócio viram 500 e vão para o log.
func Render(c *gin.Context, log *zap.Logger, err error) {
	if be, ok := AsBusiness(err); ok {
		Write(c, be.Status(), be.Code, be.Message)
		return
	}
	if log != nil {
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	Internal(c, "internal_error", "Erreur interne.")
}
