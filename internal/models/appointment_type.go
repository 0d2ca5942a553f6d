package models

import "time"

type AppointmentType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name            string `gorm:"size:100;not null" json:"name"`
	DurationMinutes int    `gorm:"not null;default:60" json:"duration_minutes"`
	PriceCents      int64  `gorm:"not null;default:0" json:"price_cents"`
	Participants    int    `gorm:"not null;default:1" json:"participants"`
	Active          bool   `gorm:"not null;default:true" json:"active"`

	PrerequisiteID *uint            `json:"prerequisite_id"`
	Prerequisite   *AppointmentType `gorm:"foreignKey:PrerequisiteID;constraint:OnDelete:SET NULL;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsCouple indica o modo casal (exige parceiro).
func (t AppointmentType) IsCouple() bool {
	return t.Participants == 2
}
