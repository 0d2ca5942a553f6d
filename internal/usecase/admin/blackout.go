package admin

import (
	"context"
	"time"

	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
	"github.com/BruksfildServices01/appointment-scheduler/internal/timezone"
)

type BlackoutStore interface {
	CreateUnavailableDay(ctx context.Context, day time.Time, reason string) (*models.UnavailableDay, error)
	CreateUnavailability(ctx context.Context, in slot.Interval, allDay bool, reason string) (*models.Unavailability, error)
}

type BlockDay struct {
	store BlackoutStore
}

func NewBlockDay(store BlackoutStore) *BlockDay {
	return &BlockDay{store: store}
}

func (uc *BlockDay) Execute(ctx context.Context, day time.Time, reason string) (*models.UnavailableDay, error) {
	return uc.store.CreateUnavailableDay(ctx, timezone.StartOfDay(day), reason)
}

type AddUnavailabilityInput struct {
	Start  time.Time
	End    time.Time
	AllDay bool
	Reason string
}

type AddUnavailability struct {
	store BlackoutStore
}

func NewAddUnavailability(store BlackoutStore) *AddUnavailability {
	return &AddUnavailability{store: store}
}

func (uc *AddUnavailability) Execute(ctx context.Context, in AddUnavailabilityInput) (*models.Unavailability, error) {
	iv, err := slot.NormalizeBlackout(in.Start, in.End, in.AllDay)
	if err != nil {
		return nil, err
	}
	return uc.store.CreateUnavailability(ctx, iv, in.AllDay, in.Reason)
}
