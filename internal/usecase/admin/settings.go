package admin

import (
	"context"
	"sort"

	"github.com/BruksfildServices01/appointment-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/appointment-scheduler/internal/events"
)

// ======================================================
// LEITURA
// ======================================================

type GetSettings struct {
	settings schedule.Provider
}

func NewGetSettings(settings schedule.Provider) *GetSettings {
	return &GetSettings{settings: settings}
}

// Execute devolve os valores efetivos, defaults incluídos.
func (uc *GetSettings) Execute(ctx context.Context) (map[string]string, error) {
	cfg, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.Effective(), nil
}

// ======================================================
// ESCRITA
// ======================================================

type UpdateSettings struct {
	store    schedule.SettingsStore
	settings schedule.Provider
	events   events.Sink
}

func NewUpdateSettings(store schedule.SettingsStore, settings schedule.Provider, sink events.Sink) *UpdateSettings {
	return &UpdateSettings{store: store, settings: settings, events: sink}
}

// Execute valida tudo antes de gravar; um valor inválido não grava nada.
func (uc *UpdateSettings) Execute(ctx context.Context, actorID uint, values map[string]string) (map[string]string, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clean := make(map[string]string, len(values))
	for _, k := range keys {
		v, err := schedule.ValidateSetting(k, values[k])
		if err != nil {
			return nil, err
		}
		clean[k] = v
	}

	for _, k := range keys {
		if err := uc.store.Upsert(ctx, k, clean[k]); err != nil {
			return nil, err
		}
	}

	if err := uc.settings.Invalidate(ctx); err != nil {
		return nil, err
	}

	payload := make(map[string]any, len(clean))
	for k, v := range clean {
		payload[k] = v
	}
	uc.events.Dispatch(events.New(events.SettingsUpdated, 0, &actorID, payload))

	cfg, err := uc.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.Effective(), nil
}
