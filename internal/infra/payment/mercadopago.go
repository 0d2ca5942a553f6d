package payment

import (
	"context"
	"fmt"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

type MercadoPagoGateway struct {
	preferences     preference.Client
	payments        mppayment.Client
	notificationURL string
}

func NewMercadoPagoGateway(accessToken, notificationURL string) (*MercadoPagoGateway, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPagoGateway{
		preferences:     preference.NewClient(cfg),
		payments:        mppayment.NewClient(cfg),
		notificationURL: notificationURL,
	}, nil
}

// CreateCheckout cria a preferência; o id do agendamento vai como
// external_reference e volta no webhook.
func (g *MercadoPagoGateway) CreateCheckout(ctx context.Context, ap *models.Appointment) (*domain.Checkout, error) {
	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:        strconv.FormatUint(uint64(ap.AppointmentTypeID), 10),
				Title:     ap.AppointmentType.Name,
				Quantity:  1,
				UnitPrice: float64(ap.AppointmentType.PriceCents) / 100,
			},
		},
		ExternalReference: domain.ExternalReference(ap.ID),
		NotificationURL:   g.notificationURL,
	}

	res, err := g.preferences.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago create preference: %w", err)
	}

	return &domain.Checkout{PreferenceID: res.ID, InitPoint: res.InitPoint}, nil
}

func (g *MercadoPagoGateway) FetchPayment(ctx context.Context, paymentID int) (*domain.Payment, error) {
	res, err := g.payments.Get(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("mercadopago get payment: %w", err)
	}

	return &domain.Payment{
		ID:                res.ID,
		Status:            res.Status,
		ExternalReference: res.ExternalReference,
	}, nil
}

var _ domain.Gateway = (*MercadoPagoGateway)(nil)
