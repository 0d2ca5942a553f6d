package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
	"github.com/BruksfildServices01/appointment-scheduler/internal/timezone"
)

// chave do advisory lock da agenda (única, compartilhada)
const calendarLockKey int64 = 0x5c4ed01e

var blockingStatuses = []string{
	string(domain.StatusPending),
	string(domain.StatusConfirmed),
}

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func toLocal(ap *models.Appointment) {
	ap.StartAt = timezone.FromStorage(ap.StartAt)
	ap.EndAt = timezone.FromStorage(ap.EndAt)
}

func toLocalAll(apps []models.Appointment) {
	for i := range apps {
		toLocal(&apps[i])
	}
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(code)
	}
	return err
}

// --------------------------------------------------
// Tipos / usuários
// --------------------------------------------------

func (r *AppointmentGormRepository) GetType(ctx context.Context, id uint) (*models.AppointmentType, error) {
	var t models.AppointmentType
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&t).Error; err != nil {
		return nil, notFound(err, "type_not_found")
	}
	return &t, nil
}

func (r *AppointmentGormRepository) ListTypes(ctx context.Context) ([]models.AppointmentType, error) {
	var types []models.AppointmentType
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *AppointmentGormRepository) CreateType(ctx context.Context, t *models.AppointmentType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *AppointmentGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "user_not_found")
	}
	return &u, nil
}

func (r *AppointmentGormRepository) HasConfirmedOfType(ctx context.Context, userID, typeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("user_id = ? AND appointment_type_id = ? AND status = ?", userID, typeID, domain.StatusConfirmed).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Criação / conflito
// --------------------------------------------------

// assertFree roda dentro da transação que já segura o advisory lock.
func assertFree(tx *gorm.DB, start, end time.Time, buffer time.Duration, excludeID uint) error {
	q := tx.Model(&models.Appointment{}).
		Where(
			"status IN ? AND start_at < ? AND end_at > ?",
			blockingStatuses,
			timezone.ToStorage(end.Add(buffer)),
			timezone.ToStorage(start.Add(-buffer)),
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return httperr.ErrBusiness("slot_taken")
	}
	return nil
}

func lockCalendar(tx *gorm.DB) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", calendarLockKey).Error
}

func (r *AppointmentGormRepository) CreateIfFree(ctx context.Context, ap *models.Appointment, buffer time.Duration) error {
	start, end := ap.StartAt, ap.EndAt

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCalendar(tx); err != nil {
			return err
		}
		if err := assertFree(tx, start, end, buffer, 0); err != nil {
			return err
		}

		ap.StartAt = timezone.ToStorage(start)
		ap.EndAt = timezone.ToStorage(end)
		return tx.Omit(clause.Associations).Create(ap).Error
	})

	ap.StartAt, ap.EndAt = start, end

	if httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness("slot_taken")
	}
	return err
}

func (r *AppointmentGormRepository) MoveIfFree(ctx context.Context, id uint, start, end time.Time, buffer time.Duration) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCalendar(tx); err != nil {
			return err
		}

		var ap models.Appointment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ap, id).Error; err != nil {
			return notFound(err, "appointment_not_found")
		}
		if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
			return err
		}

		if err := assertFree(tx, start, end, buffer, id); err != nil {
			return err
		}

		return tx.Model(&models.Appointment{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"start_at": timezone.ToStorage(start),
				"end_at":   timezone.ToStorage(end),
			}).Error
	})

	if httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness("slot_taken")
	}
	return err
}

// BlockingIntervals implementa slot.BookingSource.
func (r *AppointmentGormRepository) BlockingIntervals(ctx context.Context, from, to time.Time) ([]slot.Interval, error) {
	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("id", "start_at", "end_at").
		Where(
			"status IN ? AND start_at < ? AND end_at > ?",
			blockingStatuses,
			timezone.ToStorage(to),
			timezone.ToStorage(from),
		).
		Order("start_at ASC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}

	out := make([]slot.Interval, 0, len(apps))
	for _, ap := range apps {
		out = append(out, slot.Interval{
			Start: timezone.FromStorage(ap.StartAt),
			End:   timezone.FromStorage(ap.EndAt),
		})
	}
	return out, nil
}

// --------------------------------------------------
// Estado
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("AppointmentType").
		Preload("User").
		First(&ap, id).Error; err != nil {
		return nil, notFound(err, "appointment_not_found")
	}
	toLocal(&ap)
	return &ap, nil
}

// UpdateLocked trava a linha (FOR UPDATE), aplica a mutação e grava.
func (r *AppointmentGormRepository) UpdateLocked(
	ctx context.Context,
	id uint,
	apply func(ap *models.Appointment) error,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("AppointmentType").
			Preload("User").
			First(&ap, id).Error; err != nil {
			return notFound(err, "appointment_not_found")
		}

		toLocal(&ap)
		if err := apply(&ap); err != nil {
			return err
		}

		row := ap
		row.StartAt = timezone.ToStorage(ap.StartAt)
		row.EndAt = timezone.ToStorage(ap.EndAt)
		return tx.Omit(clause.Associations).Save(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) NextNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Raw("SELECT nextval('appointment_number_seq')").
		Scan(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *AppointmentGormRepository) ListByUser(ctx context.Context, userID uint) ([]models.Appointment, error) {
	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("AppointmentType").
		Where("user_id = ?", userID).
		Order("start_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	toLocalAll(apps)
	return apps, nil
}

// --------------------------------------------------
// Lotes
// --------------------------------------------------

func (r *AppointmentGormRepository) ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]models.Appointment, error) {
	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at <= ?", domain.StatusPending, createdBefore.UTC()).
		Order("created_at ASC").
		Limit(limit).
		Find(&apps).Error; err != nil {
		return nil, err
	}
	toLocalAll(apps)
	return apps, nil
}

// ExpirePending cancela um lote numa transação curta. O filtro de status é
// refeito para não tocar em quem foi confirmado no meio do caminho.
func (r *AppointmentGormRepository) ExpirePending(ctx context.Context, ids []uint, createdBefore, now time.Time) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Appointment{}).
			Where("id IN ? AND status = ? AND created_at <= ?", ids, domain.StatusPending, createdBefore.UTC()).
			Updates(map[string]any{
				"status":      string(domain.StatusCanceled),
				"canceled_at": now.UTC(),
			})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

func (r *AppointmentGormRepository) ListForReminder(ctx context.Context, kind domain.ReminderKind, from, to time.Time) ([]models.Appointment, error) {
	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("AppointmentType").
		Preload("User").
		Where("status = ? AND start_at >= ? AND start_at < ?", domain.StatusConfirmed, from.UTC(), to.UTC()).
		Where(kind.Column() + " IS NULL").
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	toLocalAll(apps)
	return apps, nil
}

func (r *AppointmentGormRepository) MarkReminderSent(ctx context.Context, id uint, kind domain.ReminderKind, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Where(kind.Column()+" IS NULL").
		Update(kind.Column(), at.UTC()).Error
}

func (r *AppointmentGormRepository) ListForCalendarExport(ctx context.Context, includePending, onlyNotSent bool) ([]models.Appointment, error) {
	statuses := []string{string(domain.StatusConfirmed)}
	if includePending {
		statuses = append(statuses, string(domain.StatusPending))
	}

	q := r.db.WithContext(ctx).
		Preload("AppointmentType").
		Where("status IN ?", statuses)
	if onlyNotSent {
		q = q.Where("is_sent = ?", false)
	}

	var apps []models.Appointment
	if err := q.Order("start_at ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	toLocalAll(apps)
	return apps, nil
}

func (r *AppointmentGormRepository) MarkAsSent(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id IN ?", ids).
		Update("is_sent", true).Error
}

// Compile-time check
var (
	_ domain.Repository  = (*AppointmentGormRepository)(nil)
	_ slot.BookingSource = (*AppointmentGormRepository)(nil)
)
