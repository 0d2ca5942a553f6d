package timezone

import (
	"sync"
	"time"

	// embute a base de fusos para não depender do sistema
	_ "time/tzdata"
)

const DefaultTimezone = "Europe/Paris"

var (
	mu      sync.RWMutex
	current = mustLoad(DefaultTimezone)
)

func mustLoad(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Configure define o fuso único da agenda. Chamado uma vez no boot.
func Configure(tz string) {
	loc := mustLoad(DefaultTimezone)
	if IsValid(tz) {
		loc, _ = time.LoadLocation(tz)
	}
	mu.Lock()
	current = loc
	mu.Unlock()
}

// Location é o fuso em que toda regra de agenda é calculada.
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Now() time.Time {
	return time.Now().In(Location())
}

// ======================================================
// Fronteira de persistência (UTC no banco, local no domínio)
// ======================================================

func ToStorage(t time.Time) time.Time {
	return t.UTC()
}

func FromStorage(t time.Time) time.Time {
	return t.In(Location())
}

// StartOfDay devolve a meia-noite local do dia de t.
func StartOfDay(t time.Time) time.Time {
	t = t.In(Location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location())
}

// ParseDate lê YYYY-MM-DD como meia-noite local.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, Location())
}
