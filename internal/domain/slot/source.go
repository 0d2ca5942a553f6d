package slot

import (
	"context"
	"time"
)

// BlackoutSource expõe os bloqueios da agenda para um dia local.
type BlackoutSource interface {
	// IsDayBlocked é verdadeiro para um dia indisponível ou coberto por um
	// bloqueio "dia inteiro".
	IsDayBlocked(ctx context.Context, day time.Time) (bool, error)
	// IntervalsForDay devolve os bloqueios parciais, ordenados pelo início.
	IntervalsForDay(ctx context.Context, day time.Time) ([]Interval, error)
}

// BookingSource devolve os agendamentos que ocupam a agenda (pending e
// confirmed) com alguma interseção com [from, to), já no fuso local.
type BookingSource interface {
	BlockingIntervals(ctx context.Context, from, to time.Time) ([]Interval, error)
}
