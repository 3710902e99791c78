package session

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the session and closes it on shutdown
var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, s Session) {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				s.Close()
				return nil
			},
		})
	}),
)
