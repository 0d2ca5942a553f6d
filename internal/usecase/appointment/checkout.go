package appointment

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
)

// ======================================================
// CHECKOUT
// ======================================================

type CreateCheckout struct {
	repo    domain.Repository
	gateway payment.Gateway
}

func NewCreateCheckout(repo domain.Repository, gateway payment.Gateway) *CreateCheckout {
	return &CreateCheckout{repo: repo, gateway: gateway}
}

func (uc *CreateCheckout) Execute(ctx context.Context, appointmentID uint, actor Actor) (*payment.Checkout, error) {
	ap, err := loadOwned(ctx, uc.repo, appointmentID, actor)
	if err != nil {
		return nil, err
	}
	if err := domain.CanConfirm(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	return uc.gateway.CreateCheckout(ctx, ap)
}

// ======================================================
// WEBHOOK
// ======================================================

type WebhookResult struct {
	AppointmentID uint   `json:"appointment_id,omitempty"`
	Status        string `json:"status"`
	Number        string `json:"number,omitempty"`
}

// HandlePaymentWebhook consulta o pagamento no provedor (o corpo da
// notificação não é confiável) e confirma o agendamento quando aprovado.
type HandlePaymentWebhook struct {
	gateway payment.Gateway
	confirm *ConfirmPayment
	log     *zap.Logger
}

func NewHandlePaymentWebhook(gateway payment.Gateway, confirm *ConfirmPayment, log *zap.Logger) *HandlePaymentWebhook {
	return &HandlePaymentWebhook{gateway: gateway, confirm: confirm, log: log}
}

func (uc *HandlePaymentWebhook) Execute(ctx context.Context, paymentID int) (*WebhookResult, error) {
	p, err := uc.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	apID, ok := payment.ParseExternalReference(p.ExternalReference)
	if !ok {
		uc.log.Warn("payment without appointment reference",
			zap.Int("payment_id", paymentID),
			zap.String("external_reference", p.ExternalReference),
		)
		return &WebhookResult{Status: "ignored"}, nil
	}

	if p.Status != payment.StatusApproved {
		return &WebhookResult{AppointmentID: apID, Status: p.Status}, nil
	}

	number, err := uc.confirm.Execute(ctx, apID)
	switch {
	case httperr.IsBusiness(err, "already_confirmed"):
		// o provedor reenvia notificações
		return &WebhookResult{AppointmentID: apID, Status: "already_confirmed"}, nil
	case err != nil:
		return nil, err
	}

	return &WebhookResult{AppointmentID: apID, Status: "confirmed", Number: number}, nil
}
