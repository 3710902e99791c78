package telemetry

import (
	"context"

	"go.uber.org/fx"

	"logscope/internal/config"
	"logscope/internal/config/logger"
)

// Module provides the error reporter and flushes it on shutdown
var Module = fx.Options(
	fx.Provide(func(lc fx.Lifecycle, cfg *config.Config, log logger.Logger) Reporter {
		r := NewReporter(cfg, log.WithComponent("TELEMETRY"))

		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				r.Flush(config.FlushTimeout)
				return nil
			},
		})

		return r
	}),
)
