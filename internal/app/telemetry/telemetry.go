package telemetry

//go:generate mockgen -source=telemetry.go -destination=telemetry_mock.go -package=telemetry

import (
	"time"

	"github.com/getsentry/sentry-go"

	"logscope/internal/config"
	"logscope/internal/config/logger"
)

// Reporter forwards operational errors to an error tracker
type Reporter interface {
	Capture(err error, tags map[string]string)
	Flush(timeout time.Duration) bool
	Enabled() bool
}

// sentryReporter implements the Reporter interface on a dedicated sentry hub
type sentryReporter struct {
	hub *sentry.Hub
}

// noopReporter drops everything
type noopReporter struct{}

// NewReporter returns a sentry backed reporter when a DSN is configured, a no-op one otherwise
func NewReporter(cfg *config.Config, log logger.Logger) Reporter {
	return newReporter(cfg, log, nil)
}

func newReporter(cfg *config.Config, log logger.Logger, beforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event) Reporter {
	if cfg.Telemetry.DSN == "" {
		return noopReporter{}
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         cfg.Telemetry.DSN,
		Environment: cfg.Telemetry.Environment,
		Release:     config.AppName + "@" + config.Version,
		BeforeSend:  beforeSend,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Error reporting disabled")
		return noopReporter{}
	}

	log.Debug().Msgf("Error reporting enabled for environment '%s'", cfg.Telemetry.Environment)

	return &sentryReporter{hub: sentry.NewHub(client, sentry.NewScope())}
}

// Capture reports err with tags attached to this event only
func (r *sentryReporter) Capture(err error, tags map[string]string) {
	if err == nil {
		return
	}

	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		r.hub.CaptureException(err)
	})
}

func (r *sentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}

func (r *sentryReporter) Enabled() bool {
	return true
}

func (noopReporter) Capture(error, map[string]string) {}
func (noopReporter) Flush(time.Duration) bool         { return true }
func (noopReporter) Enabled() bool                    { return false }
