package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

type ReminderKind int

const (
	Reminder7Days ReminderKind = iota
	Reminder24Hours
)

func (k ReminderKind) Offset() time.Duration {
	if k == Reminder7Days {
		return 7 * 24 * time.Hour
	}
	return 24 * time.Hour
}

func (k ReminderKind) Column() string {
	if k == Reminder7Days {
		return "reminder7_sent_at"
	}
	return "reminder24_sent_at"
}

func (k ReminderKind) String() string {
	if k == Reminder7Days {
		return "7d"
	}
	return "24h"
}

type Repository interface {
	// -------- Tipos / usuários --------
	GetType(ctx context.Context, id uint) (*models.AppointmentType, error)
	ListTypes(ctx context.Context) ([]models.AppointmentType, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	HasConfirmedOfType(ctx context.Context, userID, typeID uint) (bool, error)

	// -------- Criação / conflito --------

	// CreateIfFree grava o agendamento se [StartAt, EndAt) alargado pelo
	// buffer não cruzar nenhum pending/confirmed. A checagem e o insert são
	// atômicos em relação a outras reservas.
	CreateIfFree(ctx context.Context, ap *models.Appointment, buffer time.Duration) error

	// MoveIfFree troca o horário com a mesma garantia, ignorando o próprio
	// agendamento.
	MoveIfFree(ctx context.Context, id uint, start, end time.Time, buffer time.Duration) error

	// -------- Estado --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	UpdateLocked(ctx context.Context, id uint, apply func(ap *models.Appointment) error) (*models.Appointment, error)
	NextNumber(ctx context.Context) (int64, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Appointment, error)

	// -------- Lotes --------
	ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]models.Appointment, error)
	ExpirePending(ctx context.Context, ids []uint, createdBefore, now time.Time) (int64, error)
	ListForReminder(ctx context.Context, kind ReminderKind, from, to time.Time) ([]models.Appointment, error)
	MarkReminderSent(ctx context.Context, id uint, kind ReminderKind, at time.Time) error
	ListForCalendarExport(ctx context.Context, includePending, onlyNotSent bool) ([]models.Appointment, error)
	MarkAsSent(ctx context.Context, ids []uint) error
}
