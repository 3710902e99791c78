package app

import (
	"go.uber.org/fx"

	"logscope/internal/app/bus"
	"logscope/internal/app/cli"
	"logscope/internal/app/export"
	"logscope/internal/app/feed"
	"logscope/internal/app/loader"
	"logscope/internal/app/offsets"
	"logscope/internal/app/scan"
	"logscope/internal/app/selection"
	"logscope/internal/app/session"
	"logscope/internal/app/store"
	"logscope/internal/app/telemetry"
	"logscope/internal/config/logger"
)

var Module = fx.Options(
	logger.Module,
	bus.Module,
	telemetry.Module,
	store.Module,
	selection.Module,
	offsets.Module,
	scan.Module,
	loader.Module,
	feed.Module,
	export.Module,
	session.Module,
	cli.Module,
	fx.Provide(NewApp),
	fx.Invoke(Register),
)
