package models

import "time"

// Pessoa avaliada, embutida no agendamento (titular e parceiro).
type EvaluatedPerson struct {
	Firstname string     `gorm:"size:100" json:"firstname"`
	Lastname  string     `gorm:"size:100" json:"lastname"`
	Patronyms string     `gorm:"size:255" json:"patronyms"`
	Birthdate *time.Time `gorm:"type:date" json:"birthdate"`
}

func (p EvaluatedPerson) IsZero() bool {
	return p.Firstname == "" && p.Lastname == "" && p.Patronyms == "" && p.Birthdate == nil
}

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	AppointmentTypeID uint            `gorm:"not null" json:"appointment_type_id"`
	AppointmentType   AppointmentType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"appointment_type"`

	// Gravados em UTC; o repositório devolve no fuso local.
	StartAt time.Time `gorm:"not null;index" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`

	Status string  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Number *string `gorm:"size:32;uniqueIndex" json:"number"`

	Principal EvaluatedPerson `gorm:"embedded;embeddedPrefix:principal_" json:"principal"`
	Partner   EvaluatedPerson `gorm:"embedded;embeddedPrefix:partner_" json:"partner"`

	Reminder7SentAt  *time.Time `json:"reminder7_sent_at"`
	Reminder24SentAt *time.Time `json:"reminder24_sent_at"`
	IsSent           bool       `gorm:"not null;default:false" json:"is_sent"`

	RefundPercent     *int       `json:"refund_percent"`
	RefundAmountCents *int64     `json:"refund_amount_cents"`
	RefundTier        *string    `gorm:"size:10" json:"refund_tier"`
	CanceledAt        *time.Time `json:"canceled_at"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
