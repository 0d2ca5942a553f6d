package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/slot"
)

// SlotRangeCache guarda a resposta da disponibilidade por intervalo.
type SlotRangeCache struct {
	kv kv
}

func NewSlotRangeCache(client kv) *SlotRangeCache {
	return &SlotRangeCache{kv: client}
}

func (c *SlotRangeCache) Get(ctx context.Context, key string) ([]slot.DaySlots, bool) {
	raw, err := c.kv.Get(ctx, "slots:"+key).Bytes()
	if err != nil {
		return nil, false
	}
	var out []slot.DaySlots
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *SlotRangeCache) Set(ctx context.Context, key string, days []slot.DaySlots, ttl time.Duration) error {
	b, err := json.Marshal(days)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, "slots:"+key, b, ttl).Err()
}
