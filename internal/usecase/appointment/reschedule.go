package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/appointment-scheduler/internal/events"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
)

type RescheduleAppointment struct {
	repo     domain.Repository
	settings schedule.Provider
	engine   *slot.Engine
	events   events.Sink
	now      clock
}

func NewRescheduleAppointment(
	repo domain.Repository,
	settings schedule.Provider,
	engine *slot.Engine,
	sink events.Sink,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:     repo,
		settings: settings,
		engine:   engine,
		events:   sink,
		now:      defaultClock,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actor Actor,
	newStart time.Time,
) (*slot.Interval, error) {

	ap, err := loadOwned(ctx, uc.repo, appointmentID, actor)
	if err != nil {
		return nil, err
	}

	cfg, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1. Estado + aviso mínimo dos dois lados
	// --------------------------------------------------
	now := uc.now()
	notice := time.Duration(cfg.RescheduleMinNoticeHours()) * time.Hour
	if err := domain.CheckReschedule(ap, now, newStart, notice); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Precisa ser exatamente um slot disponível
	// --------------------------------------------------
	target := slot.Interval{
		Start: newStart,
		End:   newStart.Add(minutes(ap.AppointmentType.DurationMinutes)),
	}

	slots, err := uc.engine.AvailableSlots(ctx, cfg, slot.Query{
		Now:             now,
		DurationMinutes: ap.AppointmentType.DurationMinutes,
		Day:             newStart,
	})
	if err != nil {
		return nil, err
	}
	if !slot.Contains(slots, target) {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	// --------------------------------------------------
	// 3. Troca atômica
	// --------------------------------------------------
	old := slot.Interval{Start: ap.StartAt, End: ap.EndAt}
	if err := uc.repo.MoveIfFree(ctx, ap.ID, target.Start, target.End, minutes(cfg.BufferMinutes())); err != nil {
		return nil, err
	}
	if err := domain.Reschedule(ap, target.Start, target.End); err != nil {
		return nil, err
	}

	uc.events.Dispatch(events.New(events.AppointmentRescheduled, ap.ID, actor.userPtr(), map[string]any{
		"old_start_at": old.Start.UTC(),
		"old_end_at":   old.End.UTC(),
		"start_at":     target.Start.UTC(),
		"end_at":       target.End.UTC(),
	}))

	return &target, nil
}
