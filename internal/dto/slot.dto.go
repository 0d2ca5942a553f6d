package dto

import (
	"time"

	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/slot"
)

type SlotDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type DaySlotsDTO struct {
	Date  string    `json:"date"`
	Slots []SlotDTO `json:"slots"`
}

func Slots(in []slot.Interval) []SlotDTO {
	out := make([]SlotDTO, 0, len(in))
	for _, s := range in {
		out = append(out, SlotDTO{Start: s.Start.UTC(), End: s.End.UTC()})
	}
	return out
}

func Days(in []slot.DaySlots) []DaySlotsDTO {
	out := make([]DaySlotsDTO, 0, len(in))
	for _, d := range in {
		out = append(out, DaySlotsDTO{Date: d.Date, Slots: Slots(d.Slots)})
	}
	return out
}
