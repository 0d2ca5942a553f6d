package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/appointment-scheduler/internal/events"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

func newUpdatePersons(h *harness) *UpdatePersons {
	uc := NewUpdatePersons(h.repo, h.sink)
	uc.now = fixedClock(wednesday)
	return uc
}

func TestUpdatePersons_ReplacesPrincipal(t *testing.T) {
	h := newHarness(nil)
	ap := h.confirmed(10, local(2025, 3, 10, 9, 0))

	partner := person("Ignoré")
	got, err := newUpdatePersons(h).Execute(context.Background(), ap.ID, owner, UpdatePersonsInput{
		Principal: person("Dominique"),
		Partner:   &partner,
	})
	require.NoError(t, err)

	assert.Equal(t, "Dominique", got.Principal.Firstname)
	assert.True(t, got.Partner.IsZero())
	assert.Equal(t, "Dominique", h.repo.apps[ap.ID].Principal.Firstname)
	assert.Equal(t, "confirmed", h.repo.status(ap.ID))
	assert.Equal(t, []string{events.AppointmentPersonsUpdated}, h.sink.names())
}

func TestUpdatePersons_CoupleNeedsPartner(t *testing.T) {
	h := newHarness(nil)
	h.repo.types[2] = models.AppointmentType{ID: 2, Name: "Séance couple", DurationMinutes: 90, Participants: 2, Active: true}
	ap := h.repo.put(models.Appointment{
		UserID:            10,
		AppointmentTypeID: 2,
		Status:            "pending",
		StartAt:           local(2025, 3, 10, 9, 0),
		EndAt:             local(2025, 3, 10, 10, 30),
		Principal:         person("Camille"),
		Partner:           person("Alex"),
	})
	uc := newUpdatePersons(h)

	_, err := uc.Execute(context.Background(), ap.ID, owner, UpdatePersonsInput{Principal: person("Camille")})
	assert.True(t, httperr.IsBusiness(err, "invalid_person"), "got %v", err)

	partner := person("Noa")
	got, err := uc.Execute(context.Background(), ap.ID, owner, UpdatePersonsInput{Principal: person("Camille"), Partner: &partner})
	require.NoError(t, err)
	assert.Equal(t, "Noa", got.Partner.Firstname)
}

func TestUpdatePersons_Guards(t *testing.T) {
	h := newHarness(nil)
	ap := h.confirmed(10, local(2025, 3, 10, 9, 0))
	canceled := h.repo.put(models.Appointment{
		UserID:            10,
		AppointmentTypeID: 1,
		Status:            "canceled",
		StartAt:           local(2025, 3, 11, 9, 0),
		EndAt:             local(2025, 3, 11, 10, 0),
		Principal:         person("Camille"),
	})
	uc := newUpdatePersons(h)
	in := UpdatePersonsInput{Principal: person("Dominique")}

	_, err := uc.Execute(context.Background(), ap.ID, Actor{UserID: 11}, in)
	assert.True(t, httperr.IsBusiness(err, "forbidden"))

	_, err = uc.Execute(context.Background(), canceled.ID, owner, in)
	assert.True(t, httperr.IsBusiness(err, "already_canceled"))

	blank := person("")
	_, err = uc.Execute(context.Background(), ap.ID, owner, UpdatePersonsInput{Principal: blank})
	assert.Error(t, err)

	assert.Equal(t, "Camille", h.repo.apps[ap.ID].Principal.Firstname)
	assert.Empty(t, h.sink.names())
}
