package payment

import (
	"context"
	"strconv"

	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

const StatusApproved = "approved"

type Checkout struct {
	PreferenceID string `json:"preference_id"`
	InitPoint    string `json:"init_point"`
}

type Payment struct {
	ID                int
	Status            string
	ExternalReference string
}

// Gateway é o provedor de pagamento. Para o núcleo ele só produz o sinal
// "pagamento aprovado" para um agendamento.
type Gateway interface {
	CreateCheckout(ctx context.Context, ap *models.Appointment) (*Checkout, error)
	FetchPayment(ctx context.Context, paymentID int) (*Payment, error)
}

func ExternalReference(appointmentID uint) string {
	return "appointment-" + strconv.FormatUint(uint64(appointmentID), 10)
}

// ParseExternalReference devolve o id do agendamento.
func ParseExternalReference(ref string) (uint, bool) {
	const prefix = "appointment-"
	if len(ref) <= len(prefix) || ref[:len(prefix)] != prefix {
		return 0, false
	}
	n, err := strconv.ParseUint(ref[len(prefix):], 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
