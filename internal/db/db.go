package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/appointment-scheduler/internal/config"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	gormLog := logger.Default.LogMode(logger.Warn)
	if cfg.IsProduction() {
		gormLog = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormLog,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	log.Info("database connected")
	return db, nil
}

// ======================================================
// MIGRATIONS
// ======================================================

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("enable btree_gist: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.AppointmentType{},
		&models.Appointment{},
		&models.ScheduleSetting{},
		&models.UnavailableDay{},
		&models.Unavailability{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	stmts := []string{
		`CREATE SEQUENCE IF NOT EXISTS appointment_number_seq START 1`,

		// Garantia estrutural contra dois agendamentos ativos no mesmo instante.
		`DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
			) THEN
				ALTER TABLE appointments
					ADD CONSTRAINT appointments_no_overlap
					EXCLUDE USING gist (tstzrange(start_at, end_at, '[)') WITH &&)
					WHERE (status IN ('pending', 'confirmed'));
			END IF;
		END $$`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return fmt.Errorf("migration: %w", err)
		}
	}

	return seedSettings(db)
}

// seedSettings grava os defaults que ainda não existem.
func seedSettings(db *gorm.DB) error {
	for key, value := range schedule.Defaults {
		if err := db.Exec(
			`INSERT INTO schedule_settings (key, value, updated_at) VALUES (?, ?, NOW()) ON CONFLICT (key) DO NOTHING`,
			key, value,
		).Error; err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}
	return nil
}
