package feed

import "go.uber.org/fx"

// Module provides the change feed
var Module = fx.Options(
	fx.Provide(NewFeed),
)
