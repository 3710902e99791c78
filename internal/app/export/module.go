package export

import (
	"go.uber.org/fx"

	"logscope/internal/config"
)

// Module provides the export sink for the configured directory
var Module = fx.Options(
	fx.Provide(func(cfg *config.Config) Sink {
		return NewFileSink(cfg.Export.Dir)
	}),
)
