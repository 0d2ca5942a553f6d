package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/appointment-scheduler/internal/dto"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type SlotsHandler struct {
	availability *appointment.GetAvailability
	log          *zap.Logger
}

func NewSlotsHandler(availability *appointment.GetAvailability, log *zap.Logger) *SlotsHandler {
	return &SlotsHandler{availability: availability, log: log}
}

// GET /api/slots?type_id=1&date=2025-03-10
func (h *SlotsHandler) Day(c *gin.Context) {
	typeID, ok := queryID(c, "type_id")
	if !ok {
		return
	}

	day, err := parseDate(c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date invalide (AAAA-MM-JJ).")
		return
	}

	slots, err := h.availability.Day(c.Request.Context(), typeID, day)
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.Slots(slots))
}

// GET /api/slots/range?type_id=1&start=2025-03-01&end=2025-04-01
func (h *SlotsHandler) Range(c *gin.Context) {
	typeID, ok := queryID(c, "type_id")
	if !ok {
		return
	}

	from, err := parseDate(c.Query("start"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date de début invalide (AAAA-MM-JJ).")
		return
	}
	to, err := parseDate(c.Query("end"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date de fin invalide (AAAA-MM-JJ).")
		return
	}

	days, err := h.availability.Range(c.Request.Context(), typeID, from, to)
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=30")
	c.JSON(http.StatusOK, dto.Days(days))
}
