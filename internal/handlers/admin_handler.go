package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/usecase/admin"
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	getSettings    *admin.GetSettings
	updateSettings *admin.UpdateSettings
	blockDay       *admin.BlockDay
	addBlackout    *admin.AddUnavailability
	log            *zap.Logger
}

func NewAdminHandler(
	getSettings *admin.GetSettings,
	updateSettings *admin.UpdateSettings,
	blockDay *admin.BlockDay,
	addBlackout *admin.AddUnavailability,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		getSettings:    getSettings,
		updateSettings: updateSettings,
		blockDay:       blockDay,
		addBlackout:    addBlackout,
		log:            log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UnavailableDayRequest struct {
	Day    string `json:"day" binding:"required"` // YYYY-MM-DD
	Reason string `json:"reason"`
}

type UnavailabilityRequest struct {
	Start  string `json:"start" binding:"required"`
	End    string `json:"end"`
	AllDay bool   `json:"all_day"`
	Reason string `json:"reason"`
}

// ======================================================
// SETTINGS
// ======================================================

// GET /api/admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	values, err := h.getSettings.Execute(c.Request.Context())
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, values)
}

// PUT /api/admin/settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	values, err := h.updateSettings.Execute(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, values)
}

// ======================================================
// BLOQUEIOS
// ======================================================

// POST /api/admin/unavailable-days
func (h *AdminHandler) CreateUnavailableDay(c *gin.Context) {
	var req UnavailableDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	day, err := parseDate(req.Day)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date invalide (AAAA-MM-JJ).")
		return
	}

	out, err := h.blockDay.Execute(c.Request.Context(), day, req.Reason)
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// POST /api/admin/unavailabilities
func (h *AdminHandler) CreateUnavailability(c *gin.Context) {
	var req UnavailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	in := admin.AddUnavailabilityInput{AllDay: req.AllDay, Reason: req.Reason}

	var err error
	if in.Start, err = parseInstant(req.Start); err != nil {
		httperr.BadRequest(c, "invalid_start", "Début invalide.")
		return
	}
	if !req.AllDay {
		if in.End, err = parseInstant(req.End); err != nil {
			httperr.BadRequest(c, "invalid_end", "Fin invalide.")
			return
		}
	}

	out, err := h.addBlackout.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}
