package telemetry

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"logscope/internal/config"
	"logscope/internal/config/logger"
)

func quietLogger(t *testing.T) logger.Logger {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockLog := logger.NewMockLogger(ctrl)
	mockLog.EXPECT().Debug().Return(nil).AnyTimes()
	mockLog.EXPECT().Warn().Return(nil).AnyTimes()

	return mockLog
}

func Test_NewReporter_Disabled(t *testing.T) {
	r := NewReporter(config.DefaultConfig(), quietLogger(t))

	assert.False(t, r.Enabled())
	assert.True(t, r.Flush(time.Millisecond))

	r.Capture(errors.New("ignored"), nil)
}

func Test_NewReporter_InvalidDSN(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Telemetry.DSN = "not a dsn"

	r := NewReporter(cfg, quietLogger(t))

	assert.False(t, r.Enabled())
}

func Test_Reporter_Capture(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Telemetry.DSN = "https://public@example.com/1"
	cfg.Telemetry.Environment = "test"

	var (
		mu     sync.Mutex
		events []*sentry.Event
	)

	r := newReporter(cfg, quietLogger(t), func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
		mu.Lock()
		defer mu.Unlock()

		events = append(events, event)

		return nil
	})
	require.True(t, r.Enabled())

	r.Capture(errors.New("folder vanished"), map[string]string{"operation": "open"})
	r.Capture(nil, nil)

	mu.Lock()
	defer mu.Unlock()

	require.Len(t, events, 1)
	assert.Equal(t, "open", events[0].Tags["operation"])
	assert.Equal(t, "test", events[0].Environment)
	require.NotEmpty(t, events[0].Exception)
	assert.Equal(t, "folder vanished", events[0].Exception[0].Value)
}
