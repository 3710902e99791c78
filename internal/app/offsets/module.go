package offsets

import "go.uber.org/fx"

// Module provides the offsets tracker shared by the loader and the feed
var Module = fx.Options(
	fx.Provide(NewTracker),
)
