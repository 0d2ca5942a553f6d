package admin

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

type TypeStore interface {
	GetType(ctx context.Context, id uint) (*models.AppointmentType, error)
	CreateType(ctx context.Context, t *models.AppointmentType) error
}

type CreateTypeInput struct {
	Name            string
	DurationMinutes int
	PriceCents      int64
	Participants    int
	PrerequisiteID  *uint
}

type CreateType struct {
	store TypeStore
}

func NewCreateType(store TypeStore) *CreateType {
	return &CreateType{store: store}
}

func (uc *CreateType) Execute(ctx context.Context, in CreateTypeInput) (*models.AppointmentType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, httperr.ErrValidation("invalid_type", "Le nom est obligatoire.")
	}
	if in.DurationMinutes <= 0 {
		return nil, httperr.ErrValidation("invalid_type", "La durée doit être positive.")
	}
	if in.PriceCents < 0 {
		return nil, httperr.ErrValidation("invalid_type", "Le prix ne peut pas être négatif.")
	}
	if in.Participants == 0 {
		in.Participants = 1
	}
	if in.Participants != 1 && in.Participants != 2 {
		return nil, httperr.ErrValidation("invalid_type", "Une ou deux personnes uniquement.")
	}

	if in.PrerequisiteID != nil {
		if _, err := uc.store.GetType(ctx, *in.PrerequisiteID); err != nil {
			return nil, err
		}
	}

	t := &models.AppointmentType{
		Name:            name,
		DurationMinutes: in.DurationMinutes,
		PriceCents:      in.PriceCents,
		Participants:    in.Participants,
		Active:          true,
		PrerequisiteID:  in.PrerequisiteID,
	}
	if err := uc.store.CreateType(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
