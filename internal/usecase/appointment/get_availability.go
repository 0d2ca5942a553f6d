package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/slot"
)

const RangeCacheTTL = 30 * time.Second

// RangeCache guarda respostas por intervalo; nil desliga o cache.
type RangeCache interface {
	Get(ctx context.Context, key string) ([]slot.DaySlots, bool)
	Set(ctx context.Context, key string, days []slot.DaySlots, ttl time.Duration) error
}

type GetAvailability struct {
	repo     domain.Repository
	settings schedule.Provider
	engine   *slot.Engine
	cache    RangeCache
	now      clock
}

func NewGetAvailability(
	repo domain.Repository,
	settings schedule.Provider,
	engine *slot.Engine,
	cache RangeCache,
) *GetAvailability {
	return &GetAvailability{
		repo:     repo,
		settings: settings,
		engine:   engine,
		cache:    cache,
		now:      defaultClock,
	}
}

// Day lista os slots de um dia local para o tipo informado.
func (uc *GetAvailability) Day(ctx context.Context, typeID uint, day time.Time) ([]slot.Interval, error) {
	apType, err := uc.repo.GetType(ctx, typeID)
	if err != nil {
		return nil, err
	}

	cfg, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	return uc.engine.AvailableSlots(ctx, cfg, slot.Query{
		Now:             uc.now(),
		DurationMinutes: apType.DurationMinutes,
		Day:             day,
	})
}

// Range lista os dias com pelo menos um slot em [from, to). A chave do
// cache inclui a barreira, que muda com o relógio.
func (uc *GetAvailability) Range(ctx context.Context, typeID uint, from, to time.Time) ([]slot.DaySlots, error) {
	cfg, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	barrier := schedule.ComputeBarrier(now, cfg.OpeningDelayHours(), cfg.OpenDays())
	key := fmt.Sprintf("%d:%s:%s:%d",
		typeID, from.Format("2006-01-02"), to.Format("2006-01-02"), barrier.Unix())

	if uc.cache != nil {
		if days, ok := uc.cache.Get(ctx, key); ok {
			return days, nil
		}
	}

	apType, err := uc.repo.GetType(ctx, typeID)
	if err != nil {
		return nil, err
	}

	days, err := uc.engine.AvailableSlotsRange(ctx, cfg, now, apType.DurationMinutes, from, to)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		// falha de cache não derruba a consulta
		_ = uc.cache.Set(ctx, key, days, RangeCacheTTL)
	}
	return days, nil
}
