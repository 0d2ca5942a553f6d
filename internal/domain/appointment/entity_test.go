package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/refund"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

var now = time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

func TestConfirmAssignsNumberOnce(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusPending)}

	require.NoError(t, Confirm(ap, FormatNumber(2025, 42)))
	assert.Equal(t, string(StatusConfirmed), ap.Status)
	assert.Equal(t, "2025-000042", *ap.Number)

	err := Confirm(ap, "other")
	assert.True(t, httperr.IsBusiness(err, "already_confirmed"))
	assert.Equal(t, "2025-000042", *ap.Number)
}

func TestCancelRules(t *testing.T) {
	q := refund.Quote{Tier: refund.TierHalf, Percent: 50, AmountCents: 2500}

	pending := &models.Appointment{Status: string(StatusPending)}
	assert.True(t, httperr.IsBusiness(Cancel(pending, now, q), "invalid_state"))

	confirmed := &models.Appointment{Status: string(StatusConfirmed)}
	require.NoError(t, Cancel(confirmed, now, q))
	assert.Equal(t, string(StatusCanceled), confirmed.Status)
	assert.Equal(t, 50, *confirmed.RefundPercent)
	assert.Equal(t, int64(2500), *confirmed.RefundAmountCents)
	assert.Equal(t, refund.TierHalf, *confirmed.RefundTier)

	assert.True(t, httperr.IsBusiness(Cancel(confirmed, now, q), "already_canceled"))
}

func TestExpireOnlyPending(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusConfirmed)}
	assert.Error(t, Expire(ap, now))

	ap.Status = string(StatusPending)
	require.NoError(t, Expire(ap, now))
	assert.Equal(t, string(StatusCanceled), ap.Status)
	assert.NotNil(t, ap.CanceledAt)
}

func TestCheckReschedule(t *testing.T) {
	notice := 24 * time.Hour

	canceled := &models.Appointment{Status: string(StatusCanceled), StartAt: now.Add(72 * time.Hour)}
	assert.True(t, httperr.IsBusiness(CheckReschedule(canceled, now, now.Add(96*time.Hour), notice), "already_canceled"))

	past := &models.Appointment{Status: string(StatusConfirmed), StartAt: now}
	assert.True(t, httperr.IsBusiness(CheckReschedule(past, now, now.Add(96*time.Hour), notice), "appointment_past"))

	imminent := &models.Appointment{Status: string(StatusConfirmed), StartAt: now.Add(23 * time.Hour)}
	assert.True(t, httperr.IsBusiness(CheckReschedule(imminent, now, now.Add(96*time.Hour), notice), "notice_period"))

	far := &models.Appointment{Status: string(StatusConfirmed), StartAt: now.Add(72 * time.Hour)}
	assert.True(t, httperr.IsBusiness(CheckReschedule(far, now, now.Add(2*time.Hour), notice), "notice_period"))
	assert.NoError(t, CheckReschedule(far, now, now.Add(24*time.Hour), notice))
}

func TestIsStale(t *testing.T) {
	maxAge := 30 * time.Minute

	old := &models.Appointment{Status: string(StatusPending), CreatedAt: now.Add(-31 * time.Minute)}
	fresh := &models.Appointment{Status: string(StatusPending), CreatedAt: now.Add(-29 * time.Minute)}
	confirmed := &models.Appointment{Status: string(StatusConfirmed), CreatedAt: now.Add(-time.Hour)}

	assert.True(t, IsStale(old, now, maxAge))
	assert.False(t, IsStale(fresh, now, maxAge))
	assert.False(t, IsStale(confirmed, now, maxAge))
}
