package store

import (
	"go.uber.org/fx"

	"logscope/internal/config"
)

// Module provides the log store sized by configuration
var Module = fx.Options(
	fx.Provide(func(cfg *config.Config) Store {
		return New(WithCapacity(cfg.Store.Capacity))
	}),
)
