package schedule

import "context"

// SettingsStore é a fonte persistida das configurações.
type SettingsStore interface {
	All(ctx context.Context) (map[string]string, error)
	Upsert(ctx context.Context, key, value string) error
}

// Provider entrega a Config atual; implementações podem usar cache, desde
// que Invalidate seja chamado a cada escrita.
type Provider interface {
	Load(ctx context.Context) (Config, error)
	Invalidate(ctx context.Context) error
}

// StoreProvider lê direto do store, sem cache.
type StoreProvider struct {
	store SettingsStore
}

func NewStoreProvider(store SettingsStore) *StoreProvider {
	return &StoreProvider{store: store}
}

func (p *StoreProvider) Load(ctx context.Context) (Config, error) {
	values, err := p.store.All(ctx)
	if err != nil {
		return Config{}, err
	}
	return NewConfig(values), nil
}

func (p *StoreProvider) Invalidate(context.Context) error { return nil }
