package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
	"github.com/BruksfildServices01/appointment-scheduler/internal/timezone"
)

// Actor é quem pede a operação.
type Actor struct {
	UserID uint
	Admin  bool
}

func (a Actor) Owns(ap *models.Appointment) bool {
	return a.Admin || ap.UserID == a.UserID
}

func (a Actor) userPtr() *uint {
	id := a.UserID
	return &id
}

type clock func() time.Time

var defaultClock clock = timezone.Now

func loadOwned(ctx context.Context, repo domain.Repository, id uint, actor Actor) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(ap) {
		return nil, httperr.ErrBusiness("forbidden")
	}
	return ap, nil
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
