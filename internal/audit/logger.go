package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/appointment-scheduler/internal/events"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

// Logger grava cada evento de domínio em audit_logs.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Name() string { return "audit" }

func (l *Logger) Handle(ctx context.Context, ev events.Event) error {
	var metaJSON string
	if ev.Payload != nil {
		if b, err := json.Marshal(ev.Payload); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		EventID:  ev.ID,
		UserID:   ev.UserID,
		Action:   ev.Name,
		Entity:   "appointment",
		Metadata: metaJSON,
	}
	if ev.AppointmentID != 0 {
		id := ev.AppointmentID
		row.EntityID = &id
	} else {
		row.Entity = "system"
	}

	return l.db.WithContext(ctx).Create(&row).Error
}

var _ events.Handler = (*Logger)(nil)
