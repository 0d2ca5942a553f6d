package refund

import (
	"time"

	"github.com/BruksfildServices01/appointment-scheduler/internal/timezone"
)

const (
	TierFull  = "gt48"
	TierHalf  = "48to24"
	TierNone  = "lt24"
	fullAbove = 48.0
	halfAbove = 24.0
)

// Quote é o resultado do cálculo de reembolso. Deve ser calculado uma única
// vez por cancelamento e repassado adiante, nunca recalculado.
type Quote struct {
	Tier         string  `json:"tier"`
	Percent      int     `json:"percent"`
	AmountCents  int64   `json:"amount_cents"`
	WorkingHours float64 `json:"working_hours"`
	Message      string  `json:"message"`
}

// WorkingHours soma as horas de [from, to) que caem em dias de segunda a
// sexta no fuso local. Todas as 24h do dia útil contam.
func WorkingHours(from, to time.Time) float64 {
	if !from.Before(to) {
		return 0
	}
	loc := timezone.Location()
	from = from.In(loc)
	to = to.In(loc)

	var total time.Duration
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	for day.Before(to) {
		next := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, loc)

		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			start := day
			if from.After(start) {
				start = from
			}
			end := next
			if to.Before(end) {
				end = to
			}
			if end.After(start) {
				total += end.Sub(start)
			}
		}

		day = next
	}

	return total.Hours()
}

// Compute aplica as faixas: >48h úteis 100%, >24h 50%, senão 0%.
func Compute(now, start time.Time, priceCents int64) Quote {
	hours := WorkingHours(now, start)

	q := Quote{WorkingHours: hours}
	switch {
	case hours > fullAbove:
		q.Tier, q.Percent = TierFull, 100
		q.Message = "Annulation plus de 48h ouvrées avant le rendez-vous : remboursement intégral."
	case hours > halfAbove:
		q.Tier, q.Percent = TierHalf, 50
		q.Message = "Annulation entre 48h et 24h ouvrées avant le rendez-vous : remboursement de 50 %."
	default:
		q.Tier, q.Percent = TierNone, 0
		q.Message = "Annulation moins de 24h ouvrées avant le rendez-vous : aucun remboursement."
	}

	q.AmountCents = (priceCents*int64(q.Percent) + 50) / 100
	return q
}
