package slot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/appointment-scheduler/internal/timezone"
)

// ----------------------------------------------------
// Fakes
// ----------------------------------------------------

type fakeBlackouts struct {
	blockedDays map[string]bool
	intervals   []Interval
}

func (f *fakeBlackouts) IsDayBlocked(_ context.Context, day time.Time) (bool, error) {
	return f.blockedDays[day.Format("2006-01-02")], nil
}

func (f *fakeBlackouts) IntervalsForDay(_ context.Context, day time.Time) ([]Interval, error) {
	end := day.AddDate(0, 0, 1)
	var out []Interval
	for _, i := range f.intervals {
		if i.Overlaps(Interval{Start: day, End: end}) {
			out = append(out, i)
		}
	}
	return out, nil
}

type booking struct {
	id uint
	Interval
}

type fakeBookings struct {
	items []booking
}

func (f *fakeBookings) BlockingIntervals(_ context.Context, from, to time.Time) ([]Interval, error) {
	var out []Interval
	for _, b := range f.items {
		if b.Overlaps(Interval{Start: from, End: to}) {
			out = append(out, b.Interval)
		}
	}
	return out, nil
}

// ----------------------------------------------------
// Helpers
// ----------------------------------------------------

func local(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, timezone.Location())
}

// quarta 05/03/2025: barreira de 48h cai na sexta 07/03 00:00
var wednesday = local(2025, 3, 5, 10, 0)
var monday = local(2025, 3, 10, 0, 0)

func scenarioConfig(extra map[string]string) schedule.Config {
	values := map[string]string{
		schedule.KeyOpenDays:          "1,2,3,4,5",
		schedule.KeyOpeningDelayHours: "48",
		schedule.KeyMorningStart:      "09:00",
		schedule.KeyMorningEnd:        "12:00",
		schedule.KeyAfternoonStart:    "14:00",
		schedule.KeyAfternoonEnd:      "18:00",
		schedule.KeySlotBufferMinutes: "15",
		schedule.KeyFixedSlots:        "1",
	}
	for k, v := range extra {
		values[k] = v
	}
	return schedule.NewConfig(values)
}

func starts(slots []Interval) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.In(timezone.Location()).Format("15:04"))
	}
	return out
}

func newEngine(b *fakeBlackouts, k *fakeBookings) *Engine {
	if b == nil {
		b = &fakeBlackouts{}
	}
	if k == nil {
		k = &fakeBookings{}
	}
	return NewEngine(b, k)
}

func assertWellFormed(t *testing.T, slots []Interval, duration int) {
	t.Helper()
	for i, s := range slots {
		assert.Equal(t, time.Duration(duration)*time.Minute, s.End.Sub(s.Start))
		if i > 0 {
			assert.False(t, slots[i-1].Overlaps(s), "slots %d and %d overlap", i-1, i)
			assert.True(t, slots[i-1].Start.Before(s.Start))
		}
	}
}

// ----------------------------------------------------
// Tests
// ----------------------------------------------------

func TestFixedSlotsScenario(t *testing.T) {
	e := newEngine(nil, nil)

	slots, err := e.AvailableSlots(context.Background(), scenarioConfig(nil), Query{
		Now: wednesday, DurationMinutes: 60, Day: monday,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "10:15", "14:00", "15:15", "16:30"}, starts(slots))
	assertWellFormed(t, slots, 60)
}

func TestBeforeBarrierIsEmpty(t *testing.T) {
	e := newEngine(nil, nil)

	for _, delay := range []string{"0", "1", "24", "48", "100"} {
		cfg := scenarioConfig(map[string]string{schedule.KeyOpeningDelayHours: delay})
		barrier := schedule.ComputeBarrier(wednesday, cfg.OpeningDelayHours(), cfg.OpenDays())

		for d := timezone.StartOfDay(wednesday); d.Before(barrier); d = d.AddDate(0, 0, 1) {
			slots, err := e.AvailableSlots(context.Background(), cfg, Query{
				Now: wednesday, DurationMinutes: 30, Day: d,
			})
			require.NoError(t, err)
			assert.Empty(t, slots, "delay=%s day=%s", delay, d.Format("2006-01-02"))
		}
	}
}

func TestZeroDelayStillClosesToday(t *testing.T) {
	e := newEngine(nil, nil)
	cfg := scenarioConfig(map[string]string{schedule.KeyOpeningDelayHours: "0"})

	today, err := e.AvailableSlots(context.Background(), cfg, Query{Now: wednesday, DurationMinutes: 60, Day: wednesday})
	require.NoError(t, err)
	assert.Empty(t, today)

	tomorrow, err := e.AvailableSlots(context.Background(), cfg, Query{Now: wednesday, DurationMinutes: 60, Day: wednesday.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.NotEmpty(t, tomorrow)
}

func TestBlockedAndClosedDays(t *testing.T) {
	saturday := local(2025, 3, 8, 0, 0)
	e := newEngine(&fakeBlackouts{
		blockedDays: map[string]bool{"2025-03-10": true},
		intervals: []Interval{
			{Start: local(2025, 3, 11, 0, 0), End: local(2025, 3, 12, 0, 0)},
		},
	}, nil)
	cfg := scenarioConfig(nil)

	for _, day := range []time.Time{monday, local(2025, 3, 11, 0, 0), saturday.AddDate(0, 0, 7)} {
		slots, err := e.AvailableSlots(context.Background(), cfg, Query{Now: wednesday, DurationMinutes: 60, Day: day})
		require.NoError(t, err)
		assert.Empty(t, slots, day.Format("2006-01-02"))
	}
}

func TestPartialBlackoutHasNoBuffer(t *testing.T) {
	e := newEngine(&fakeBlackouts{
		intervals: []Interval{{Start: local(2025, 3, 10, 10, 0), End: local(2025, 3, 10, 10, 15)}},
	}, nil)

	slots, err := e.AvailableSlots(context.Background(), scenarioConfig(nil), Query{
		Now: wednesday, DurationMinutes: 60, Day: monday,
	})
	require.NoError(t, err)

	// 09:00-10:00 encosta no bloqueio sem sobrepor; 10:15 começa no fim dele
	assert.Equal(t, []string{"09:00", "10:15", "14:00", "15:15", "16:30"}, starts(slots))
}

func TestBookingsAreExpandedByBuffer(t *testing.T) {
	e := newEngine(nil, &fakeBookings{items: []booking{
		{id: 1, Interval: Interval{Start: local(2025, 3, 10, 14, 30), End: local(2025, 3, 10, 15, 0)}},
	}})

	slots, err := e.AvailableSlots(context.Background(), scenarioConfig(nil), Query{
		Now: wednesday, DurationMinutes: 60, Day: monday,
	})
	require.NoError(t, err)

	// reserva 14:30-15:00 com buffer vira 14:15-15:15
	assert.Equal(t, []string{"09:00", "10:15", "15:15", "16:30"}, starts(slots))
}

func TestIgnoreBookingsReturnsTheGrid(t *testing.T) {
	e := newEngine(&fakeBlackouts{intervals: []Interval{
		{Start: local(2025, 3, 10, 14, 0), End: local(2025, 3, 10, 16, 0)},
	}}, &fakeBookings{items: []booking{
		{id: 7, Interval: Interval{Start: local(2025, 3, 10, 9, 0), End: local(2025, 3, 10, 10, 0)}},
	}})
	cfg := scenarioConfig(nil)

	listed, err := e.AvailableSlots(context.Background(), cfg, Query{Now: wednesday, DurationMinutes: 60, Day: monday})
	require.NoError(t, err)
	assert.NotContains(t, starts(listed), "09:00")

	grid, err := e.AvailableSlots(context.Background(), cfg, Query{Now: wednesday, DurationMinutes: 60, Day: monday, IgnoreBookings: true})
	require.NoError(t, err)
	assert.Contains(t, starts(grid), "09:00")
	// bloqueios continuam valendo
	assert.NotContains(t, starts(grid), "14:00")
}

func TestFreeWalkStaysNonOverlapping(t *testing.T) {
	e := newEngine(nil, &fakeBookings{items: []booking{
		{id: 1, Interval: Interval{Start: local(2025, 3, 10, 9, 0), End: local(2025, 3, 10, 9, 30)}},
	}})
	cfg := scenarioConfig(map[string]string{
		schedule.KeyFixedSlots:        "0",
		schedule.KeySlotStepMinutes:   "15",
		schedule.KeySlotBufferMinutes: "0",
	})

	slots, err := e.AvailableSlots(context.Background(), cfg, Query{Now: wednesday, DurationMinutes: 45, Day: monday})
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	assert.Equal(t, "09:30", starts(slots)[0])
	assertWellFormed(t, slots, 45)
}

func TestZeroDurationHasNoSlots(t *testing.T) {
	e := newEngine(nil, nil)
	slots, err := e.AvailableSlots(context.Background(), scenarioConfig(nil), Query{Now: wednesday, DurationMinutes: 0, Day: monday})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestRangeClampsToBarrierAndSkipsClosedDays(t *testing.T) {
	e := newEngine(nil, nil)

	days, err := e.AvailableSlotsRange(context.Background(), scenarioConfig(nil), wednesday, 60,
		local(2025, 3, 3, 0, 0), local(2025, 3, 12, 0, 0))
	require.NoError(t, err)

	var dates []string
	for _, d := range days {
		dates = append(dates, d.Date)
		assertWellFormed(t, d.Slots, 60)
	}
	assert.Equal(t, []string{"2025-03-07", "2025-03-10", "2025-03-11"}, dates)
}

func TestRangeRejectsInvertedOrHugeRanges(t *testing.T) {
	e := newEngine(nil, nil)
	cfg := scenarioConfig(nil)

	_, err := e.AvailableSlotsRange(context.Background(), cfg, wednesday, 60, monday, monday)
	assert.Error(t, err)

	_, err = e.AvailableSlotsRange(context.Background(), cfg, wednesday, 60, monday, monday.AddDate(0, 3, 0))
	assert.Error(t, err)
}

func TestNormalizeBlackout(t *testing.T) {
	start := local(2025, 3, 10, 10, 0)

	all, err := NormalizeBlackout(start, start.Add(time.Hour), true)
	require.NoError(t, err)
	assert.Equal(t, local(2025, 3, 10, 0, 0), all.Start)
	assert.Equal(t, local(2025, 3, 11, 0, 0), all.End)

	_, err = NormalizeBlackout(start, local(2025, 3, 11, 0, 0), false)
	assert.NoError(t, err)

	_, err = NormalizeBlackout(start, local(2025, 3, 11, 0, 1), false)
	assert.Error(t, err)

	_, err = NormalizeBlackout(start, start, false)
	assert.Error(t, err)
}
