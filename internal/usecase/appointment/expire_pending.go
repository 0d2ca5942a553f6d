package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/appointment-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-scheduler/internal/events"
	"github.com/BruksfildServices01/appointment-scheduler/internal/httperr"
)

const (
	DefaultExpireLimit = 500
	expireChunkSize    = 50
)

type ExpirePendingInput struct {
	MaxAge time.Duration
	Limit  int
	DryRun bool
}

type ExpirePendingResult struct {
	Candidates []uint `json:"candidates"`
	Expired    int64  `json:"expired"`
	Failed     int    `json:"failed"`
	DryRun     bool   `json:"dry_run"`
}

// ExpirePending cancela os pendentes sem pagamento há pelo menos MaxAge.
// Cada bloco é uma transação; um bloco com erro não interrompe os outros.
type ExpirePending struct {
	repo   domain.Repository
	events events.Sink
	log    *zap.Logger
	now    clock
}

func NewExpirePending(repo domain.Repository, sink events.Sink, log *zap.Logger) *ExpirePending {
	return &ExpirePending{repo: repo, events: sink, log: log, now: defaultClock}
}

func (uc *ExpirePending) Execute(ctx context.Context, in ExpirePendingInput) (*ExpirePendingResult, error) {
	if in.MaxAge <= 0 {
		return nil, httperr.ErrValidation("invalid_max_age", "La durée maximale doit être positive.")
	}
	if in.Limit <= 0 {
		in.Limit = DefaultExpireLimit
	}

	now := uc.now()
	cutoff := now.Add(-in.MaxAge)

	stale, err := uc.repo.ListStalePending(ctx, cutoff, in.Limit)
	if err != nil {
		return nil, err
	}

	res := &ExpirePendingResult{Candidates: make([]uint, 0, len(stale)), DryRun: in.DryRun}
	for _, ap := range stale {
		res.Candidates = append(res.Candidates, ap.ID)
	}

	if in.DryRun {
		return res, nil
	}

	for start := 0; start < len(res.Candidates); start += expireChunkSize {
		end := start + expireChunkSize
		if end > len(res.Candidates) {
			end = len(res.Candidates)
		}
		chunk := res.Candidates[start:end]

		n, err := uc.repo.ExpirePending(ctx, chunk, cutoff, now)
		if err != nil {
			res.Failed += len(chunk)
			uc.log.Error("expire chunk failed",
				zap.Uints("ids", chunk),
				zap.Error(err),
			)
			continue
		}
		res.Expired += n

		// se alguém mudou de estado no meio, não sabemos quais; sem evento
		if n != int64(len(chunk)) {
			uc.log.Warn("expire chunk partially applied",
				zap.Int("chunk", len(chunk)),
				zap.Int64("expired", n),
			)
			continue
		}
		for _, id := range chunk {
			uc.events.Dispatch(events.New(events.AppointmentExpired, id, nil, map[string]any{
				"max_age_minutes": int(in.MaxAge / time.Minute),
			}))
		}
	}

	return res, nil
}
