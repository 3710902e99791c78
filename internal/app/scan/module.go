package scan

import (
	"go.uber.org/fx"

	"logscope/internal/config"
)

// Module provides the file matcher and line decoder
var Module = fx.Options(
	fx.Provide(
		func(cfg *config.Config) (Matcher, error) {
			return NewMatcher(cfg.Loader.Patterns)
		},
		NewDecoder,
	),
)
