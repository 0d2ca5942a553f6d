package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
	"github.com/BruksfildServices01/appointment-scheduler/internal/usecase/admin"
)

type TypeLister interface {
	ListTypes(ctx context.Context) ([]models.AppointmentType, error)
}

type AppointmentTypeHandler struct {
	types  TypeLister
	create *admin.CreateType
	log    *zap.Logger
}

func NewAppointmentTypeHandler(types TypeLister, create *admin.CreateType, log *zap.Logger) *AppointmentTypeHandler {
	return &AppointmentTypeHandler{types: types, create: create, log: log}
}

type CreateTypeRequest struct {
	Name            string `json:"name" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
	PriceCents      int64  `json:"price_cents"`
	Participants    int    `json:"participants"`
	PrerequisiteID  *uint  `json:"prerequisite_id"`
}

// GET /api/appointment-types
func (h *AppointmentTypeHandler) List(c *gin.Context) {
	types, err := h.types.ListTypes(c.Request.Context())
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}
	httpresp.List(c, types)
}

// POST /api/admin/appointment-types
func (h *AppointmentTypeHandler) Create(c *gin.Context) {
	var req CreateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	t, err := h.create.Execute(c.Request.Context(), admin.CreateTypeInput{
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Participants:    req.Participants,
		PrerequisiteID:  req.PrerequisiteID,
	})
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}
