package selection

import "go.uber.org/fx"

// Module provides the selection coordinator
var Module = fx.Options(
	fx.Provide(NewCoordinator),
)
