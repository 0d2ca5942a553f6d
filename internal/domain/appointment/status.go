package appointment

import "github.com/BruksfildServices01/appointment-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
)

// ===============================
// Validations
// ===============================

// CanConfirm: só um pendente pode ser confirmado (pagamento aprovado).
func CanConfirm(current Status) error {
	switch current {
	case StatusPending:
		return nil
	case StatusConfirmed:
		return httperr.ErrBusiness("already_confirmed")
	default:
		return httperr.ErrBusiness("invalid_state")
	}
}

// CanCancel: cancelamento explícito só a partir de confirmed. Pendentes
// saem apenas pela expiração.
func CanCancel(current Status) error {
	switch current {
	case StatusConfirmed:
		return nil
	case StatusCanceled:
		return httperr.ErrBusiness("already_canceled")
	default:
		return httperr.ErrBusiness("invalid_state")
	}
}

func CanExpire(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanReschedule(current Status) error {
	if current == StatusCanceled {
		return httperr.ErrBusiness("already_canceled")
	}
	return nil
}

// BlocksCalendar indica se o status ocupa a agenda.
func BlocksCalendar(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}

func InitialStatus() Status {
	return StatusPending
}
