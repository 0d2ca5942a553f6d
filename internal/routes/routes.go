package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/appointment-scheduler/internal/app"
	"github.com/BruksfildServices01/appointment-scheduler/internal/handlers"
	"github.com/BruksfildServices01/appointment-scheduler/internal/middleware"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

// NewRouter monta o gin com os middlewares globais e todas as rotas.
func NewRouter(a *app.App) *gin.Engine {
	if a.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(a.Log))
	r.Use(middleware.RequestLogger(a.Log))
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.Maintenance(a.Settings, a.Tokens, a.Log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	RegisterRoutes(r, a)
	return r
}

func RegisterRoutes(r *gin.Engine, a *app.App) {

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(a.Users, a.Appointments, a.Tokens, a.Log)
	slotsHandler := handlers.NewSlotsHandler(a.Availability, a.Log)
	typesHandler := handlers.NewAppointmentTypeHandler(a.Appointments, a.CreateType, a.Log)

	appointmentHandler := handlers.NewAppointmentHandler(
		a.BookSlot,
		a.ListMine,
		a.Checkout,
		a.CancelQuote,
		a.Cancel,
		a.Reschedule,
		a.UpdatePersons,
		a.ConfirmPayment,
		a.Log,
	)

	paymentHandler := handlers.NewPaymentHandler(a.PaymentWebhook, a.Log)

	adminHandler := handlers.NewAdminHandler(
		a.GetSettings,
		a.UpdateSettings,
		a.BlockDay,
		a.AddBlackout,
		a.Log,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(a.DB, a.Log)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PÚBLICA
		// ------------------------------
		api.GET("/slots", slotsHandler.Day)
		api.GET("/slots/range", slotsHandler.Range)
		api.GET("/appointment-types", typesHandler.List)

		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.POST("/payments/webhook", paymentHandler.Webhook)

		// ------------------------------
		// PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(a.Tokens))
		{
			secured.GET("/me", authHandler.Me)

			secured.POST("/appointments", appointmentHandler.Book)
			secured.GET("/appointments", appointmentHandler.ListMine)
			secured.POST("/appointments/:id/checkout", appointmentHandler.Checkout)
			secured.GET("/appointments/:id/cancel-quote", appointmentHandler.CancelQuote)
			secured.POST("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.POST("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PUT("/appointments/:id/persons", appointmentHandler.UpdatePersons)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		adm := api.Group("/admin")
		adm.Use(middleware.AuthMiddleware(a.Tokens), middleware.RequireRole(models.RoleAdmin))
		{
			adm.GET("/settings", adminHandler.GetSettings)
			adm.PUT("/settings", adminHandler.UpdateSettings)

			adm.POST("/unavailable-days", adminHandler.CreateUnavailableDay)
			adm.POST("/unavailabilities", adminHandler.CreateUnavailability)

			adm.POST("/appointment-types", typesHandler.Create)
			adm.POST("/appointments/:id/confirm", appointmentHandler.Confirm)

			adm.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
