package dto

import "time"

// AppointmentListDTO é a linha de "meus agendamentos". Horários em UTC.
type AppointmentListDTO struct {
	ID                uint      `json:"id"`
	Number            *string   `json:"number,omitempty"`
	StartAt           time.Time `json:"start_at"`
	EndAt             time.Time `json:"end_at"`
	Status            string    `json:"status"`
	TypeID            uint      `json:"type_id"`
	TypeName          string    `json:"type_name"`
	PriceCents        int64     `json:"price_cents"`
	PrincipalName     string    `json:"principal_name"`
	PartnerName       string    `json:"partner_name,omitempty"`
	RefundPercent     *int      `json:"refund_percent,omitempty"`
	RefundAmountCents *int64    `json:"refund_amount_cents,omitempty"`
}
