package loader

import "go.uber.org/fx"

// Module provides the folder loader
var Module = fx.Options(
	fx.Provide(NewLoader),
)
