package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
	"github.com/BruksfildServices01/appointment-scheduler/internal/timezone"
)

type BlackoutGormRepository struct {
	db *gorm.DB
}

func NewBlackoutGormRepository(db *gorm.DB) *BlackoutGormRepository {
	return &BlackoutGormRepository{db: db}
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := timezone.StartOfDay(day)
	return start, time.Date(start.Year(), start.Month(), start.Day()+1, 0, 0, 0, 0, start.Location())
}

func (r *BlackoutGormRepository) IsDayBlocked(ctx context.Context, day time.Time) (bool, error) {
	start, end := dayBounds(day)

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UnavailableDay{}).
		Where("day = ?", start.Format("2006-01-02")).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Unavailability{}).
		Where("all_day = ? AND start_at <= ? AND end_at >= ?", true, start.UTC(), end.UTC()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BlackoutGormRepository) IntervalsForDay(ctx context.Context, day time.Time) ([]slot.Interval, error) {
	start, end := dayBounds(day)

	var rows []models.Unavailability
	if err := r.db.WithContext(ctx).
		Where("start_at < ? AND end_at > ?", end.UTC(), start.UTC()).
		Order("start_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]slot.Interval, 0, len(rows))
	for _, u := range rows {
		out = append(out, slot.Interval{
			Start: timezone.FromStorage(u.StartAt),
			End:   timezone.FromStorage(u.EndAt),
		})
	}
	return out, nil
}

// --------------------------------------------------
// Escrita (admin)
// --------------------------------------------------

func (r *BlackoutGormRepository) CreateUnavailableDay(ctx context.Context, day time.Time, reason string) (*models.UnavailableDay, error) {
	start, _ := dayBounds(day)
	row := models.UnavailableDay{
		Day:    time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		Reason: reason,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrValidation("day_already_blocked", "Ce jour est déjà indisponible.")
		}
		return nil, err
	}
	return &row, nil
}

func (r *BlackoutGormRepository) CreateUnavailability(ctx context.Context, in slot.Interval, allDay bool, reason string) (*models.Unavailability, error) {
	row := models.Unavailability{
		StartAt: timezone.ToStorage(in.Start),
		EndAt:   timezone.ToStorage(in.End),
		AllDay:  allDay,
		Reason:  reason,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

var _ slot.BlackoutSource = (*BlackoutGormRepository)(nil)
