package refund

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/appointment-scheduler/internal/timezone"
)

func local(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, timezone.Location())
}

func TestWorkingHoursSkipsWeekend(t *testing.T) {
	// sexta 12:00 -> segunda 12:00 = 12h (sexta) + 12h (segunda)
	assert.InDelta(t, 24.0, WorkingHours(local(2025, 3, 7, 12, 0), local(2025, 3, 10, 12, 0)), 1e-9)

	// sábado inteiro não conta
	assert.Zero(t, WorkingHours(local(2025, 3, 8, 0, 0), local(2025, 3, 9, 23, 0)))
}

func TestWorkingHoursReversedIsZero(t *testing.T) {
	assert.Zero(t, WorkingHours(local(2025, 3, 10, 12, 0), local(2025, 3, 10, 11, 0)))
	assert.Zero(t, WorkingHours(local(2025, 3, 10, 12, 0), local(2025, 3, 10, 12, 0)))
}

func TestExactly48HoursIsHalfTier(t *testing.T) {
	now := local(2025, 3, 4, 9, 0) // terça
	start := local(2025, 3, 6, 9, 0)

	q := Compute(now, start, 12000)
	assert.Equal(t, TierHalf, q.Tier)
	assert.Equal(t, 50, q.Percent)
	assert.Equal(t, int64(6000), q.AmountCents)
}

func TestJustAbove48HoursIsFullRefund(t *testing.T) {
	now := local(2025, 3, 4, 8, 59)
	start := local(2025, 3, 6, 9, 0)

	q := Compute(now, start, 12000)
	assert.Equal(t, TierFull, q.Tier)
	assert.Equal(t, int64(12000), q.AmountCents)
}

func TestWeekendDoesNotCountTowardsRefund(t *testing.T) {
	// sexta 10:00 -> segunda 10:00: 72h corridas mas só 24h úteis
	q := Compute(local(2025, 3, 7, 10, 0), local(2025, 3, 10, 10, 0), 10000)
	assert.Equal(t, TierNone, q.Tier)
	assert.Zero(t, q.AmountCents)
}

func TestAtOrAfterStartIsZero(t *testing.T) {
	start := local(2025, 3, 6, 9, 0)
	for _, now := range []time.Time{start, start.Add(time.Hour)} {
		q := Compute(now, start, 9999)
		assert.Equal(t, TierNone, q.Tier)
		assert.Equal(t, 0, q.Percent)
		assert.Zero(t, q.WorkingHours)
	}
}

func TestAmountRounding(t *testing.T) {
	q := Compute(local(2025, 3, 4, 9, 0), local(2025, 3, 6, 9, 0), 999)
	assert.Equal(t, int64(500), q.AmountCents)
}
