package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/dto"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

type ListMyAppointments struct {
	repo domain.Repository
}

func NewListMyAppointments(repo domain.Repository) *ListMyAppointments {
	return &ListMyAppointments{repo: repo}
}

func (uc *ListMyAppointments) Execute(ctx context.Context, userID uint) ([]dto.AppointmentListDTO, error) {
	appointments, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:                ap.ID,
			Number:            ap.Number,
			StartAt:           ap.StartAt.UTC(),
			EndAt:             ap.EndAt.UTC(),
			Status:            ap.Status,
			TypeID:            ap.AppointmentTypeID,
			TypeName:          ap.AppointmentType.Name,
			PriceCents:        ap.AppointmentType.PriceCents,
			PrincipalName:     fullName(ap.Principal),
			PartnerName:       fullName(ap.Partner),
			RefundPercent:     ap.RefundPercent,
			RefundAmountCents: ap.RefundAmountCents,
		})
	}

	return out, nil
}

func fullName(p models.EvaluatedPerson) string {
	return strings.TrimSpace(p.Firstname + " " + p.Lastname)
}
