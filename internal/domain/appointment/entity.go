package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/refund"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, number string) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.Number = &number
	return nil
}

// Cancel grava o reembolso já calculado; o quote não é recalculado aqui.
func Cancel(ap *models.Appointment, now time.Time, q refund.Quote) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	tier := q.Tier
	percent := q.Percent
	amount := q.AmountCents

	ap.Status = string(StatusCanceled)
	ap.CanceledAt = &now
	ap.RefundTier = &tier
	ap.RefundPercent = &percent
	ap.RefundAmountCents = &amount
	return nil
}

func Expire(ap *models.Appointment, now time.Time) error {
	if err := CanExpire(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCanceled)
	ap.CanceledAt = &now
	return nil
}

// CheckReschedule valida a remarcação: o horário atual e o novo precisam
// respeitar o aviso mínimo.
func CheckReschedule(ap *models.Appointment, now, newStart time.Time, minNotice time.Duration) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	if !ap.StartAt.After(now) {
		return httperr.ErrBusiness("appointment_past")
	}

	limit := now.Add(minNotice)
	if ap.StartAt.Before(limit) || newStart.Before(limit) {
		return httperr.ErrBusiness("notice_period")
	}

	return nil
}

// Reschedule aplica o novo horário já validado por CheckReschedule.
func Reschedule(ap *models.Appointment, start, end time.Time) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	ap.StartAt = start
	ap.EndAt = end
	return nil
}

// IsStale indica um pendente criado há pelo menos maxAge.
func IsStale(ap *models.Appointment, now time.Time, maxAge time.Duration) bool {
	return Status(ap.Status) == StatusPending && !ap.CreatedAt.After(now.Add(-maxAge))
}

// FormatNumber monta o número exibido ao cliente a partir da sequence.
func FormatNumber(year int, seq int64) string {
	return fmt.Sprintf("%d-%06d", year, seq)
}
