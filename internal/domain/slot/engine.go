package slot

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/timezone"
)

const (
	minFreeStepMinutes = 5
	MaxRangeDays       = 62
)

type Engine struct {
	blackouts BlackoutSource
	bookings  BookingSource
}

func NewEngine(blackouts BlackoutSource, bookings BookingSource) *Engine {
	return &Engine{blackouts: blackouts, bookings: bookings}
}

type Query struct {
	Now             time.Time
	DurationMinutes int
	Day             time.Time

	// IgnoreBookings devolve só a grade do dia (barreira, bloqueios e
	// janelas), sem descontar reservas.
	IgnoreBookings bool
}

type DaySlots struct {
	Date  string     `json:"date"`
	Slots []Interval `json:"slots"`
}

// AvailableSlots lista os horários livres de um dia. O filtro de conflitos
// aqui é só informativo; a garantia contra reserva dupla está no commit.
func (e *Engine) AvailableSlots(ctx context.Context, cfg schedule.Config, q Query) ([]Interval, error) {
	now := q.Now.In(timezone.Location())
	dayStart := timezone.StartOfDay(q.Day)
	dayEnd := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day()+1, 0, 0, 0, 0, dayStart.Location())
	day := Interval{Start: dayStart, End: dayEnd}

	// 1. barreira de antecedência
	barrier := schedule.ComputeBarrier(now, cfg.OpeningDelayHours(), cfg.OpenDays())
	if dayStart.Before(barrier) {
		return []Interval{}, nil
	}

	// 2. dia bloqueado
	blocked, err := e.blackouts.IsDayBlocked(ctx, dayStart)
	if err != nil {
		return nil, err
	}
	if blocked {
		return []Interval{}, nil
	}

	// 3. bloqueio cobrindo o dia inteiro
	blackouts, err := e.blackouts.IntervalsForDay(ctx, dayStart)
	if err != nil {
		return nil, err
	}
	for _, b := range blackouts {
		if b.Covers(day) {
			return []Interval{}, nil
		}
	}

	// 4. dia da semana fechado
	if !schedule.IsOpenDay(dayStart, cfg.OpenDays()) {
		return []Interval{}, nil
	}

	if q.DurationMinutes <= 0 {
		return []Interval{}, nil
	}

	duration := time.Duration(q.DurationMinutes) * time.Minute
	buffer := time.Duration(cfg.BufferMinutes()) * time.Minute

	step := duration + buffer
	if !cfg.FixedSlots() {
		step = time.Duration(max(minFreeStepMinutes, cfg.SlotStepMinutes())) * time.Minute
	}

	// vizinhos de outros dias também contam por causa do buffer
	var buffered []Interval
	if !q.IgnoreBookings {
		booked, err := e.bookings.BlockingIntervals(ctx, dayStart.Add(-buffer), dayEnd.Add(buffer))
		if err != nil {
			return nil, err
		}
		buffered = make([]Interval, 0, len(booked))
		for _, b := range booked {
			buffered = append(buffered, b.Expand(buffer))
		}
	}

	// 5-7. candidatos por janela
	var candidates []Interval
	for _, w := range []schedule.Window{cfg.Morning(), cfg.Afternoon()} {
		ws := wallClock(dayStart, w.Start)
		we := wallClock(dayStart, w.End)

		for cur := ws; !cur.Add(duration).After(we); cur = cur.Add(step) {
			c := Interval{Start: cur, End: cur.Add(duration)}
			if overlapsAny(c, blackouts) || overlapsAny(c, buffered) {
				continue
			}
			candidates = append(candidates, c)
		}
	}

	// 8. ordena, elimina sobreposição entre janelas e reaplica a barreira
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start.Before(candidates[j].Start)
	})

	out := make([]Interval, 0, len(candidates))
	for _, c := range candidates {
		if c.Start.Before(barrier) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Overlaps(c) {
			continue
		}
		out = append(out, c)
	}

	return out, nil
}

// AvailableSlotsRange percorre os dias locais de [from, to), começando na
// barreira e pulando os dias fechados.
func (e *Engine) AvailableSlotsRange(
	ctx context.Context,
	cfg schedule.Config,
	now time.Time,
	durationMinutes int,
	from time.Time,
	to time.Time,
) ([]DaySlots, error) {
	from = timezone.StartOfDay(from)
	to = timezone.StartOfDay(to)

	if !to.After(from) {
		return nil, httperr.ErrValidation("invalid_range", "La date de fin doit suivre la date de début.")
	}
	if to.After(from.AddDate(0, 0, MaxRangeDays)) {
		return nil, httperr.ErrValidation("invalid_range", "Intervalle trop long.")
	}

	barrier := schedule.ComputeBarrier(now.In(timezone.Location()), cfg.OpeningDelayHours(), cfg.OpenDays())
	if from.Before(barrier) {
		from = timezone.StartOfDay(barrier)
	}

	out := []DaySlots{}
	for day := from; day.Before(to); day = time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location()) {
		if !schedule.IsOpenDay(day, cfg.OpenDays()) {
			continue
		}

		slots, err := e.AvailableSlots(ctx, cfg, Query{
			Now:             now,
			DurationMinutes: durationMinutes,
			Day:             day,
		})
		if err != nil {
			return nil, err
		}
		if len(slots) == 0 {
			continue
		}

		out = append(out, DaySlots{Date: day.Format("2006-01-02"), Slots: slots})
	}

	return out, nil
}

// Contains diz se o intervalo é exatamente um dos slots.
func Contains(slots []Interval, want Interval) bool {
	for _, s := range slots {
		if s.Equal(want) {
			return true
		}
	}
	return false
}

func wallClock(dayStart time.Time, minutes int) time.Time {
	return time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), 0, minutes, 0, 0, dayStart.Location())
}
