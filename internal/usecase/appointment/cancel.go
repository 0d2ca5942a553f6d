package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/refund"
	"github.com/BruksfildServices01/appointment-scheduler/internal/events"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
	"github.com/BruksfildServices01/appointment-scheduler/internal/models"
)

// QuoteTokens assina o instante do orçamento para que o cancelamento use
// exatamente o mesmo "agora" que o usuário viu.
type QuoteTokens interface {
	IssueCancelQuote(appointmentID uint, quotedAt time.Time) (string, error)
	VerifyCancelQuote(token string, appointmentID uint, now time.Time) (time.Time, error)
}

// ======================================================
// ORÇAMENTO (preview)
// ======================================================

type CancelQuoteResult struct {
	refund.Quote
	QuotedAt   time.Time `json:"quoted_at"`
	QuoteToken string    `json:"quote_token"`
}

type CancelQuote struct {
	repo   domain.Repository
	tokens QuoteTokens
	now    clock
}

func NewCancelQuote(repo domain.Repository, tokens QuoteTokens) *CancelQuote {
	return &CancelQuote{repo: repo, tokens: tokens, now: defaultClock}
}

func (uc *CancelQuote) Execute(ctx context.Context, appointmentID uint, actor Actor) (*CancelQuoteResult, error) {
	ap, err := loadOwned(ctx, uc.repo, appointmentID, actor)
	if err != nil {
		return nil, err
	}
	if err := domain.CanCancel(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	now := uc.now()
	token, err := uc.tokens.IssueCancelQuote(ap.ID, now)
	if err != nil {
		return nil, err
	}

	return &CancelQuoteResult{
		Quote:      refund.Compute(now, ap.StartAt, ap.AppointmentType.PriceCents),
		QuotedAt:   now.UTC(),
		QuoteToken: token,
	}, nil
}

// ======================================================
// CANCELAMENTO
// ======================================================

type CancelAppointment struct {
	repo   domain.Repository
	tokens QuoteTokens
	events events.Sink
	now    clock
}

func NewCancelAppointment(repo domain.Repository, tokens QuoteTokens, sink events.Sink) *CancelAppointment {
	return &CancelAppointment{repo: repo, tokens: tokens, events: sink, now: defaultClock}
}

// Execute cancela um agendamento confirmado. Com quoteToken válido (até 5
// minutos, nunca no futuro) o reembolso usa o instante do orçamento; senão
// usa um único "agora".
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actor Actor,
	quoteToken string,
) (*refund.Quote, error) {

	now := uc.now()
	snapshot := now
	if quoteToken != "" {
		if at, err := uc.tokens.VerifyCancelQuote(quoteToken, appointmentID, now); err == nil {
			snapshot = at.In(now.Location())
		}
	}

	var quote refund.Quote
	ap, err := uc.repo.UpdateLocked(ctx, appointmentID, func(ap *models.Appointment) error {
		if !actor.Owns(ap) {
			return httperr.ErrBusiness("forbidden")
		}
		if err := domain.CanCancel(domain.Status(ap.Status)); err != nil {
			return err
		}

		quote = refund.Compute(snapshot, ap.StartAt, ap.AppointmentType.PriceCents)
		return domain.Cancel(ap, now, quote)
	})
	if err != nil {
		return nil, err
	}

	uc.events.Dispatch(events.New(events.AppointmentCanceled, ap.ID, actor.userPtr(), map[string]any{
		"tier":         quote.Tier,
		"percent":      quote.Percent,
		"amount_cents": quote.AmountCents,
		"message":      quote.Message,
	}))

	return &quote, nil
}
