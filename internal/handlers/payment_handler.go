package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/usecase/appointment"
)

type PaymentHandler struct {
	webhook *appointment.HandlePaymentWebhook
	log     *zap.Logger
}

func NewPaymentHandler(webhook *appointment.HandlePaymentWebhook, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{webhook: webhook, log: log}
}

type webhookBody struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// POST /api/payments/webhook
//
// O MercadoPago manda o id no corpo ou em ?type=payment&data.id=...; só
// notificações de pagamento interessam.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	kind := c.Query("type")
	rawID := c.Query("data.id")

	if rawID == "" {
		var body webhookBody
		if err := c.ShouldBindJSON(&body); err == nil {
			kind, rawID = body.Type, body.Data.ID
		}
	}

	if kind != "payment" || rawID == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	paymentID, err := strconv.Atoi(rawID)
	if err != nil {
		httperr.BadRequest(c, "invalid_payment_id", "Identifiant de paiement invalide.")
		return
	}

	res, err := h.webhook.Execute(c.Request.Context(), paymentID)
	if err != nil {
		httperr.Render(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
