package appointment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/events"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

// ReminderWindow é a largura da janela varrida a cada execução; o cron
// precisa rodar com esse intervalo.
const ReminderWindow = 15 * time.Minute

type ReminderSender interface {
	SendReminder(ctx context.Context, ap *models.Appointment, kind domain.ReminderKind) error
}

type SendRemindersResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type SendReminders struct {
	repo   domain.Repository
	sender ReminderSender
	events events.Sink
	log    *zap.Logger
	now    clock
}

func NewSendReminders(
	repo domain.Repository,
	sender ReminderSender,
	sink events.Sink,
	log *zap.Logger,
) *SendReminders {
	return &SendReminders{repo: repo, sender: sender, events: sink, log: log, now: defaultClock}
}

func (uc *SendReminders) Execute(ctx context.Context) (*SendRemindersResult, error) {
	now := uc.now()
	res := &SendRemindersResult{}

	for _, kind := range []domain.ReminderKind{domain.Reminder7Days, domain.Reminder24Hours} {
		from := now.Add(kind.Offset())
		to := from.Add(ReminderWindow)

		apps, err := uc.repo.ListForReminder(ctx, kind, from, to)
		if err != nil {
			return res, err
		}

		for i := range apps {
			uc.sendOne(ctx, &apps[i], kind, now, res)
		}
	}

	return res, nil
}

func (uc *SendReminders) sendOne(
	ctx context.Context,
	ap *models.Appointment,
	kind domain.ReminderKind,
	now time.Time,
	res *SendRemindersResult,
) {
	fields := []zap.Field{
		zap.Uint("appointment_id", ap.ID),
		zap.String("kind", kind.String()),
	}

	err := uc.sender.SendReminder(ctx, ap, kind)
	switch {
	case errors.Is(err, domain.ErrNoRecipient):
		res.Skipped++
		uc.log.Warn("reminder skipped: no email", fields...)
		return
	case err != nil:
		res.Failed++
		uc.log.Error("reminder failed", append(fields, zap.Error(err))...)
		return
	}

	if err := uc.repo.MarkReminderSent(ctx, ap.ID, kind, now); err != nil {
		res.Failed++
		uc.log.Error("reminder sent but not marked", append(fields, zap.Error(err))...)
		return
	}

	res.Sent++
	uc.events.Dispatch(events.New(events.ReminderSent, ap.ID, &ap.UserID, map[string]any{
		"kind": kind.String(),
	}))
}
