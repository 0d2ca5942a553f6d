package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/events"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
	"github.com/BruksfildServices01/appointment-scheduler/internal/validators"
)

type UpdatePersonsInput struct {
	Principal models.EvaluatedPerson
	Partner   *models.EvaluatedPerson
}

// UpdatePersons corrige as pessoas avaliadas de um agendamento que ainda
// não foi cancelado. Horário e status não mudam.
type UpdatePersons struct {
	repo   domain.Repository
	events events.Sink
	now    clock
}

func NewUpdatePersons(repo domain.Repository, sink events.Sink) *UpdatePersons {
	return &UpdatePersons{repo: repo, events: sink, now: defaultClock}
}

func (uc *UpdatePersons) Execute(
	ctx context.Context,
	appointmentID uint,
	actor Actor,
	in UpdatePersonsInput,
) (*models.Appointment, error) {

	ap, err := loadOwned(ctx, uc.repo, appointmentID, actor)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if err := validators.ValidatePerson("principal", in.Principal, now); err != nil {
		return nil, err
	}

	var partner models.EvaluatedPerson
	if ap.AppointmentType.IsCouple() {
		if in.Partner == nil {
			return nil, httperr.ErrValidation("invalid_person", "partner: obligatoire pour cette prestation.")
		}
		if err := validators.ValidatePerson("partner", *in.Partner, now); err != nil {
			return nil, err
		}
		partner = *in.Partner
	}

	updated, err := uc.repo.UpdateLocked(ctx, appointmentID, func(ap *models.Appointment) error {
		if domain.Status(ap.Status) == domain.StatusCanceled {
			return httperr.ErrBusiness("already_canceled")
		}
		ap.Principal = in.Principal
		ap.Partner = partner
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.events.Dispatch(events.New(events.AppointmentPersonsUpdated, updated.ID, actor.userPtr(), map[string]any{
		"couple": updated.AppointmentType.IsCouple(),
	}))

	return updated, nil
}
