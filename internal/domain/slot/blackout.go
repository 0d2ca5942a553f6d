package slot

import (
	"time"

	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/timezone"
)

// NormalizeBlackout valida um bloqueio parcial: precisa caber num único dia
// local (fim à meia-noite seguinte é aceito). allDay estica para o dia todo.
func NormalizeBlackout(start, end time.Time, allDay bool) (Interval, error) {
	start = start.In(timezone.Location())
	end = end.In(timezone.Location())

	dayStart := timezone.StartOfDay(start)
	nextMidnight := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day()+1, 0, 0, 0, 0, dayStart.Location())

	if allDay {
		return Interval{Start: dayStart, End: nextMidnight}, nil
	}

	if !end.After(start) {
		return Interval{}, httperr.ErrValidation("invalid_unavailability", "La fin doit être après le début.")
	}
	if end.After(nextMidnight) {
		return Interval{}, httperr.ErrValidation("invalid_unavailability", "L'indisponibilité doit tenir sur une seule journée.")
	}

	return Interval{Start: start, End: end}, nil
}
