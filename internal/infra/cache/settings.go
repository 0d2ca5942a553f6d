package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/schedule"
)

const settingsKey = "schedule:settings:v1"

// SettingsProvider guarda as configurações no Redis por um TTL curto. Se o
// Redis falhar, lê direto do banco.
type SettingsProvider struct {
	store schedule.SettingsStore
	kv    kv
	ttl   time.Duration
	log   *zap.Logger
}

func NewSettingsProvider(store schedule.SettingsStore, client kv, ttl time.Duration, log *zap.Logger) *SettingsProvider {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &SettingsProvider{store: store, kv: client, ttl: ttl, log: log}
}

func (p *SettingsProvider) Load(ctx context.Context) (schedule.Config, error) {
	raw, err := p.kv.Get(ctx, settingsKey).Bytes()
	if err == nil {
		var values map[string]string
		if jsonErr := json.Unmarshal(raw, &values); jsonErr == nil {
			return schedule.NewConfig(values), nil
		}
	} else if !errors.Is(err, redis.Nil) {
		p.log.Warn("settings cache read failed", zap.Error(err))
	}

	values, err := p.store.All(ctx)
	if err != nil {
		return schedule.Config{}, err
	}

	if b, err := json.Marshal(values); err == nil {
		if err := p.kv.Set(ctx, settingsKey, b, p.ttl).Err(); err != nil {
			p.log.Warn("settings cache write failed", zap.Error(err))
		}
	}

	return schedule.NewConfig(values), nil
}

func (p *SettingsProvider) Invalidate(ctx context.Context) error {
	return p.kv.Del(ctx, settingsKey).Err()
}

var _ schedule.Provider = (*SettingsProvider)(nil)
