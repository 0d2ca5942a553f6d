package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/appointment-scheduler/internal/auth"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens *auth.Tokens) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))

	secured := r.Group("/", AuthMiddleware(tokens))
	secured.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.MustGet(ContextUserID)})
	})
	secured.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokens("secret")
	r := newRouter(tokens)

	userToken, err := tokens.IssueUser(&models.User{ID: 7, Role: models.RoleUser})
	require.NoError(t, err)

	w := do(r, "/me", userToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "garbage").Code)

	other, _ := auth.NewTokens("other").IssueUser(&models.User{ID: 7})
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", other).Code)
}

func TestAuthMiddleware_RejectsQuoteToken(t *testing.T) {
	tokens := auth.NewTokens("secret")
	quote, err := tokens.IssueCancelQuote(7, time.Now())
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(newRouter(tokens), "/me", quote).Code)
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokens("secret")
	r := newRouter(tokens)

	userToken, _ := tokens.IssueUser(&models.User{ID: 7, Role: models.RoleUser})
	adminToken, _ := tokens.IssueUser(&models.User{ID: 1, Role: models.RoleAdmin})

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", userToken).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/admin", adminToken).Code)
}

func TestRequestLogger_KeepsIncomingID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://cabinet.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://cabinet.example", w.Header().Get("Access-Control-Allow-Origin"))
}

type maintenanceStore map[string]string

func (s maintenanceStore) All(context.Context) (map[string]string, error) { return s, nil }
func (s maintenanceStore) Upsert(context.Context, string, string) error   { return nil }

func maintenanceRouter(tokens *auth.Tokens, on string) *gin.Engine {
	settings := schedule.NewStoreProvider(maintenanceStore{schedule.KeyMaintenance: on})

	r := gin.New()
	r.Use(Maintenance(settings, tokens, zap.NewNop()))
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/health", ok)
	r.GET("/api/slots", ok)
	r.POST("/api/auth/login", ok)
	r.GET("/api/admin/settings", ok)
	return r
}

func TestMaintenance_BlocksPublicRoutes(t *testing.T) {
	tokens := auth.NewTokens("secret")
	r := maintenanceRouter(tokens, "1")

	w := do(r, "/api/slots", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "300", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"error_code":"maintenance"`)

	userToken, err := tokens.IssueUser(&models.User{ID: 7, Role: models.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, "/api/slots", userToken).Code)

	adminToken, err := tokens.IssueUser(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, do(r, "/api/slots", adminToken).Code)

	assert.Equal(t, http.StatusNoContent, do(r, "/health", "").Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/api/admin/settings", "").Code)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMaintenance_OffLetsEverythingThrough(t *testing.T) {
	r := maintenanceRouter(auth.NewTokens("secret"), "0")
	assert.Equal(t, http.StatusNoContent, do(r, "/api/slots", "").Code)
}
