package slot

import "time"

// Interval é um intervalo semiaberto [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Expand alarga o intervalo em d dos dois lados.
func (i Interval) Expand(d time.Duration) Interval {
	return Interval{Start: i.Start.Add(-d), End: i.End.Add(d)}
}

func (i Interval) Equal(o Interval) bool {
	return i.Start.Equal(o.Start) && i.End.Equal(o.End)
}

func (i Interval) Covers(o Interval) bool {
	return !i.Start.After(o.Start) && !i.End.Before(o.End)
}

func overlapsAny(c Interval, blocks []Interval) bool {
	for _, b := range blocks {
		if c.Overlaps(b) {
			return true
		}
	}
	return false
}
