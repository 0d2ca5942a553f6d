package logging

import (
	"go.uber.org/zap"
)

// New devolve um logger JSON em produção e o console colorido em dev.
func New(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// Must é usado no boot, onde não há como seguir sem logger.
func Must(production bool) *zap.Logger {
	l, err := New(production)
	if err != nil {
		panic(err)
	}
	return l
}
