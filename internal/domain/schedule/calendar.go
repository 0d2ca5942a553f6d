package schedule

import (
	"time"
)

// ISOWeekday devolve 1 (segunda) .. 7 (domingo).
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func IsOpenDay(date time.Time, openDays []int) bool {
	wd := ISOWeekday(date)
	for _, d := range openDays {
		if d == wd {
			return true
		}
	}
	return false
}

// nextDay avança um dia de calendário (seguro em troca de horário de verão).
func nextDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}

// ComputeBarrier converte o atraso de abertura em horas no primeiro instante
// reservável: conta ceil(h/24) dias abertos a partir de hoje (inclusive) e
// devolve a meia-noite do dia seguinte ao último deles. Com atraso zero a
// barreira é a meia-noite de amanhã.
func ComputeBarrier(now time.Time, delayHours int, openDays []int) time.Time {
	if delayHours < 0 {
		delayHours = 0
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	daysNeeded := (delayHours + 23) / 24
	if daysNeeded == 0 {
		return nextDay(day)
	}
	if len(openDays) == 0 {
		// sem dia aberto nada é reservável
		return time.Date(day.Year(), day.Month(), day.Day()+366, 0, 0, 0, 0, day.Location())
	}

	for {
		if IsOpenDay(day, openDays) {
			daysNeeded--
			if daysNeeded == 0 {
				return nextDay(day)
			}
		}
		day = nextDay(day)
	}
}
