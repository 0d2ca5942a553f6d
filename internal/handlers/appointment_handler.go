package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
	"github.com/BruksfildServices01/appointment-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book       *appointment.BookSlot
	listMine   *appointment.ListMyAppointments
	checkout   *appointment.CreateCheckout
	quote      *appointment.CancelQuote
	cancel     *appointment.CancelAppointment
	reschedule *appointment.RescheduleAppointment
	persons    *appointment.UpdatePersons
	confirm    *appointment.ConfirmPayment
	log        *zap.Logger
}

func NewAppointmentHandler(
	book *appointment.BookSlot,
	listMine *appointment.ListMyAppointments,
	checkout *appointment.CreateCheckout,
	quote *appointment.CancelQuote,
	cancel *appointment.CancelAppointment,
	reschedule *appointment.RescheduleAppointment,
	persons *appointment.UpdatePersons,
	confirm *appointment.ConfirmPayment,
	log *zap.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:       book,
		listMine:   listMine,
		checkout:   checkout,
		quote:      quote,
		cancel:     cancel,
		reschedule: reschedule,
		persons:    persons,
		confirm:    confirm,
		log:        log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type PersonRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Patronyms string `json:"patronyms"`
	Birthdate string `json:"birthdate"` // YYYY-MM-DD
}

func (p *PersonRequest) toModel() (models.EvaluatedPerson, error) {
	out := models.EvaluatedPerson{
		Firstname: strings.TrimSpace(p.Firstname),
		Lastname:  strings.TrimSpace(p.Lastname),
		Patronyms: strings.TrimSpace(p.Patronyms),
	}
	if p.Birthdate != "" {
		b, err := parseDate(p.Birthdate)
		if err != nil {
			return out, err
		}
		out.Birthdate = &b
	}
	return out, nil
}

type BookRequest struct {
	TypeID    uint           `json:"type_id" binding:"required"`
	Start     string         `json:"start" binding:"required"`
	Principal PersonRequest  `json:"principal"`
	Partner   *PersonRequest `json:"partner"`
}

type CancelRequest struct {
	QuoteToken string `json:"quote_token"`
}

type PersonsRequest struct {
	Principal PersonRequest  `json:"principal"`
	Partner   *PersonRequest `json:"partner"`
}

type RescheduleRequest struct {
	Start string `json:"start" binding:"required"`
}

// ======================================================
// BOOK
// ======================================================

// POST /api/appointments
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	start, err := parseInstant(req.Start)
	if err != nil {
		httperr.BadRequest(c, "invalid_start", "Horaire invalide.")
		return
	}

	principal, err := req.Principal.toModel()
	if err != nil {
		httperr.BadRequest(c, "invalid_birthdate", "Date de naissance invalide.")
		return
	}

	in := appointment.BookSlotInput{
		TypeID:    req.TypeID,
		UserID:    currentUserID(c),
		Start:     start,
		Principal: principal,
	}
	if req.Partner != nil {
		partner, err := req.Partner.toModel()
		if err != nil {
			httperr.BadRequest(c, "invalid_birthdate", "Date de naissance invalide.")
			return
		}
		in.Partner = &partner
	}

	ap, err := h.book.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       ap.ID,
		"status":   ap.Status,
		"start_at": ap.StartAt.UTC(),
		"end_at":   ap.EndAt.UTC(),
	})
}

// ======================================================
// LIST
// ======================================================

// GET /api/appointments
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	out, err := h.listMine.Execute(c.Request.Context(), currentUserID(c))
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}
	httpresp.List(c, out)
}

// ======================================================
// CHECKOUT
// ======================================================

// POST /api/appointments/:id/checkout
func (h *AppointmentHandler) Checkout(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	co, err := h.checkout.Execute(c.Request.Context(), id, currentActor(c))
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}
	httpresp.OK(c, co)
}

// ======================================================
// CANCEL
// ======================================================

// GET /api/appointments/:id/cancel-quote
func (h *AppointmentHandler) CancelQuote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	q, err := h.quote.Execute(c.Request.Context(), id, currentActor(c))
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}
	httpresp.OK(c, q)
}

// POST /api/appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	// corpo opcional
	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Données invalides.")
			return
		}
	}

	q, err := h.cancel.Execute(c.Request.Context(), id, currentActor(c), req.QuoteToken)
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "canceled",
		"refund": q,
	})
}

// ======================================================
// RESCHEDULE
// ======================================================

// POST /api/appointments/:id/reschedule
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	start, err := parseInstant(req.Start)
	if err != nil {
		httperr.BadRequest(c, "invalid_start", "Horaire invalide.")
		return
	}

	iv, err := h.reschedule.Execute(c.Request.Context(), id, currentActor(c), start)
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"start_at": iv.Start.UTC(),
		"end_at":   iv.End.UTC(),
	})
}

// ======================================================
// PERSONS
// ======================================================

// PUT /api/appointments/:id/persons
func (h *AppointmentHandler) UpdatePersons(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req PersonsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	principal, err := req.Principal.toModel()
	if err != nil {
		httperr.BadRequest(c, "invalid_birthdate", "Date de naissance invalide.")
		return
	}

	in := appointment.UpdatePersonsInput{Principal: principal}
	if req.Partner != nil {
		partner, err := req.Partner.toModel()
		if err != nil {
			httperr.BadRequest(c, "invalid_birthdate", "Date de naissance invalide.")
			return
		}
		in.Partner = &partner
	}

	ap, err := h.persons.Execute(c.Request.Context(), id, currentActor(c), in)
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        ap.ID,
		"principal": ap.Principal,
		"partner":   ap.Partner,
	})
}

// ======================================================
// ADMIN CONFIRM
// ======================================================

// POST /api/admin/appointments/:id/confirm
func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	number, err := h.confirm.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "confirmed",
		"number": number,
	})
}
