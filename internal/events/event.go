package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	AppointmentCreated     = "appointment.created"
	AppointmentConfirmed   = "appointment.confirmed"
	AppointmentCanceled    = "appointment.canceled"
	AppointmentRescheduled = "appointment.rescheduled"
	AppointmentExpired     = "appointment.expired"

	AppointmentPersonsUpdated = "appointment.persons_updated"
	ReminderSent           = "appointment.reminder_sent"
	CalendarExported       = "calendar.exported"
	SettingsUpdated        = "settings.updated"
)

type Event struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	OccurredAt    time.Time      `json:"occurred_at"`
	UserID        *uint          `json:"user_id,omitempty"`
	AppointmentID uint           `json:"appointment_id,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
}

func New(name string, appointmentID uint, userID *uint, payload map[string]any) Event {
	return Event{
		ID:            uuid.NewString(),
		Name:          name,
		OccurredAt:    time.Now().UTC(),
		UserID:        userID,
		AppointmentID: appointmentID,
		Payload:       payload,
	}
}

// Sink é o que os use cases enxergam.
type Sink interface {
	Dispatch(ev Event)
}
