package models

import "time"

type ScheduleSetting struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Key   string `gorm:"size:64;uniqueIndex;not null" json:"key"`
	Value string `gorm:"size:255;not null" json:"value"`

	UpdatedAt time.Time `json:"updated_at"`
}
