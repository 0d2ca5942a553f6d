package models

import "time"

// Dia inteiro bloqueado (feriado, férias...).
type UnavailableDay struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	Day    time.Time `gorm:"type:date;uniqueIndex;not null" json:"day"`
	Reason string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}

// Bloqueio parcial dentro de um único dia local.
type Unavailability struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	StartAt time.Time `gorm:"not null;index" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`
	AllDay  bool      `gorm:"not null;default:false" json:"all_day"`
	Reason  string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
