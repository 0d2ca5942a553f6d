package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/events"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

// ConfirmPayment: pagamento aprovado, pending -> confirmed com número.
type ConfirmPayment struct {
	repo   domain.Repository
	events events.Sink
	now    clock
}

func NewConfirmPayment(repo domain.Repository, sink events.Sink) *ConfirmPayment {
	return &ConfirmPayment{repo: repo, events: sink, now: defaultClock}
}

func (uc *ConfirmPayment) Execute(ctx context.Context, appointmentID uint) (string, error) {
	ap, err := uc.repo.UpdateLocked(ctx, appointmentID, func(ap *models.Appointment) error {
		if err := domain.CanConfirm(domain.Status(ap.Status)); err != nil {
			return err
		}

		seq, err := uc.repo.NextNumber(ctx)
		if err != nil {
			return err
		}
		return domain.Confirm(ap, domain.FormatNumber(uc.now().Year(), seq))
	})
	if err != nil {
		return "", err
	}

	uc.events.Dispatch(events.New(events.AppointmentConfirmed, ap.ID, &ap.UserID, map[string]any{
		"number": *ap.Number,
	}))

	return *ap.Number, nil
}
