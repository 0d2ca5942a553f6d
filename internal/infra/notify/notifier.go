package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/events"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
	"github.com/BruksfildServices01/appointment-scheduler/internal/timezone"
)

var ErrNoRecipient = domain.ErrNoRecipient

type AppointmentLookup interface {
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
}

// Notifier monta os e-mails do cliente. Também consome os eventos de
// confirmação, cancelamento e remarcação.
type Notifier struct {
	sender Sender
	lookup AppointmentLookup
	log    *zap.Logger
}

func NewNotifier(sender Sender, lookup AppointmentLookup, log *zap.Logger) *Notifier {
	return &Notifier{sender: sender, lookup: lookup, log: log}
}

func (n *Notifier) SendReminder(_ context.Context, ap *models.Appointment, kind domain.ReminderKind) error {
	if ap.User.Email == "" {
		return ErrNoRecipient
	}

	when := "dans 7 jours"
	if kind == domain.Reminder24Hours {
		when = "demain"
	}

	body := fmt.Sprintf(
		"Bonjour %s,\n\nPetit rappel : votre rendez-vous « %s » a lieu %s, le %s.\n",
		ap.User.Name, ap.AppointmentType.Name, when, formatLocal(ap),
	)
	return n.sender.Send(ap.User.Email, "Rappel de votre rendez-vous", body)
}

func (n *Notifier) Name() string { return "email" }

func (n *Notifier) Handle(ctx context.Context, ev events.Event) error {
	var subject, intro string
	switch ev.Name {
	case events.AppointmentConfirmed:
		subject, intro = "Confirmation de votre rendez-vous", "votre rendez-vous est confirmé"
	case events.AppointmentCanceled:
		subject, intro = "Annulation de votre rendez-vous", "votre rendez-vous a été annulé"
	case events.AppointmentRescheduled:
		subject, intro = "Modification de votre rendez-vous", "votre rendez-vous a été déplacé"
	default:
		return nil
	}

	ap, err := n.lookup.GetAppointment(ctx, ev.AppointmentID)
	if err != nil {
		return err
	}
	if ap.User.Email == "" {
		n.log.Warn("appointment without email, skipping notification",
			zap.Uint("appointment_id", ap.ID),
			zap.String("event", ev.Name),
		)
		return nil
	}

	body := fmt.Sprintf("Bonjour %s,\n\n%s : « %s » le %s.\n", ap.User.Name, intro, ap.AppointmentType.Name, formatLocal(ap))
	if ap.Number != nil {
		body += fmt.Sprintf("Numéro de réservation : %s\n", *ap.Number)
	}
	if ev.Name == events.AppointmentCanceled && ap.RefundPercent != nil {
		body += fmt.Sprintf("Remboursement : %d %%.\n", *ap.RefundPercent)
	}

	return n.sender.Send(ap.User.Email, subject, body)
}

func formatLocal(ap *models.Appointment) string {
	return timezone.FromStorage(ap.StartAt).Format("02/01/2006 à 15:04")
}

var _ events.Handler = (*Notifier)(nil)
