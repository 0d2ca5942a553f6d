package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/appointment-scheduler/internal/events"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
	"github.com/BruksfildServices01/appointment-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type BookSlotInput struct {
	TypeID    uint
	UserID    uint
	Start     time.Time
	Principal models.EvaluatedPerson
	Partner   *models.EvaluatedPerson
}

// ======================================================
// USE CASE
// ======================================================

type BookSlot struct {
	repo     domain.Repository
	settings schedule.Provider
	engine   *slot.Engine
	events   events.Sink
	now      clock
}

func NewBookSlot(
	repo domain.Repository,
	settings schedule.Provider,
	engine *slot.Engine,
	sink events.Sink,
) *BookSlot {
	return &BookSlot{
		repo:     repo,
		settings: settings,
		engine:   engine,
		events:   sink,
		now:      defaultClock,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookSlot) Execute(ctx context.Context, in BookSlotInput) (*models.Appointment, error) {
	now := uc.now()

	// --------------------------------------------------
	// 1. Tipo e usuário
	// --------------------------------------------------
	apType, err := uc.repo.GetType(ctx, in.TypeID)
	if err != nil {
		return nil, err
	}
	if apType.DurationMinutes <= 0 {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	if _, err := uc.repo.GetUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Pessoas avaliadas (parceiro só no modo casal)
	// --------------------------------------------------
	if err := validators.ValidatePerson("principal", in.Principal, now); err != nil {
		return nil, err
	}

	var partner models.EvaluatedPerson
	if apType.IsCouple() {
		if in.Partner == nil {
			return nil, httperr.ErrValidation("invalid_person", "partner: obligatoire pour cette prestation.")
		}
		if err := validators.ValidatePerson("partner", *in.Partner, now); err != nil {
			return nil, err
		}
		partner = *in.Partner
	}

	// --------------------------------------------------
	// 3. Pré-requisito
	// --------------------------------------------------
	if apType.PrerequisiteID != nil {
		ok, err := uc.repo.HasConfirmedOfType(ctx, in.UserID, *apType.PrerequisiteID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, httperr.ErrBusiness("prerequisite_missing")
		}
	}

	// --------------------------------------------------
	// 4. O horário precisa estar na grade do dia
	// --------------------------------------------------
	cfg, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	want := slot.Interval{Start: in.Start, End: in.Start.Add(minutes(apType.DurationMinutes))}

	ok, err := uc.onGrid(ctx, cfg, now, apType.DurationMinutes, want)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	// --------------------------------------------------
	// 5. Criação atômica; conflito com reserva vira slot_taken
	// --------------------------------------------------
	ap := &models.Appointment{
		UserID:            in.UserID,
		AppointmentTypeID: apType.ID,
		StartAt:           want.Start,
		EndAt:             want.End,
		Status:            string(domain.InitialStatus()),
		Principal:         in.Principal,
		Partner:           partner,
	}

	if err := uc.repo.CreateIfFree(ctx, ap, minutes(cfg.BufferMinutes())); err != nil {
		return nil, err
	}
	ap.AppointmentType = *apType

	// --------------------------------------------------
	// 6. Evento
	// --------------------------------------------------
	uc.events.Dispatch(events.New(events.AppointmentCreated, ap.ID, &in.UserID, map[string]any{
		"type_id":  apType.ID,
		"start_at": ap.StartAt.UTC(),
		"end_at":   ap.EndAt.UTC(),
	}))

	return ap, nil
}

// onGrid aceita um slot listado ou um horário da grade sem reservas. A
// ocupação fica por conta do CreateIfFree.
func (uc *BookSlot) onGrid(ctx context.Context, cfg schedule.Config, now time.Time, duration int, want slot.Interval) (bool, error) {
	q := slot.Query{Now: now, DurationMinutes: duration, Day: want.Start}

	listed, err := uc.engine.AvailableSlots(ctx, cfg, q)
	if err != nil {
		return false, err
	}
	if slot.Contains(listed, want) {
		return true, nil
	}

	q.IgnoreBookings = true
	grid, err := uc.engine.AvailableSlots(ctx, cfg, q)
	if err != nil {
		return false, err
	}
	return slot.Contains(grid, want), nil
}
