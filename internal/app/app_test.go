package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/mock/gomock"

	"logscope/internal/app/cli"
	"logscope/internal/config/logger"
)

// mockLifecycle implements fx.Lifecycle for testing
type mockLifecycle struct {
	onAppend func(fx.Hook)
}

func (m *mockLifecycle) Append(hook fx.Hook) {
	if m.onAppend != nil {
		m.onAppend(hook)
	}
}

// mockShutdowner implements fx.Shutdowner for testing
type mockShutdowner struct {
	calls int
	err   error
}

func (m *mockShutdowner) Shutdown(...fx.ShutdownOption) error {
	m.calls++
	return m.err
}

func Test_NewApp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCLI := cli.NewMockCLI(ctrl)
	mockLogger := logger.NewMockLogger(ctrl)

	application := NewApp(mockCLI, &mockShutdowner{}, mockLogger)

	assert.NotNil(t, application)
	assert.Equal(t, mockCLI, application.cli)
	assert.Equal(t, mockLogger, application.log)
	assert.NotNil(t, application.done)
}

func Test_execute(t *testing.T) {
	tests := []struct {
		name         string
		before       func(mockCLI *cli.MockCLI, mockLogger *logger.MockLogger)
		expectedCode int
	}{
		{
			name: "Success",
			before: func(mockCLI *cli.MockCLI, mockLogger *logger.MockLogger) {
				mockCLI.EXPECT().Execute().Return(0, nil)
			},
			expectedCode: 0,
		},
		{
			name: "Failure",
			before: func(mockCLI *cli.MockCLI, mockLogger *logger.MockLogger) {
				mockCLI.EXPECT().Execute().Return(1, errors.New("not a directory"))
				mockLogger.EXPECT().Debug().Return(nil)
			},
			expectedCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCLI := cli.NewMockCLI(ctrl)
			mockLogger := logger.NewMockLogger(ctrl)
			tt.before(mockCLI, mockLogger)

			app := NewApp(mockCLI, &mockShutdowner{}, mockLogger)

			assert.Equal(t, tt.expectedCode, app.execute())
		})
	}
}

func Test_App_Run(t *testing.T) {
	t.Run("Shuts down after the command", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockCLI := cli.NewMockCLI(ctrl)
		mockLogger := logger.NewMockLogger(ctrl)
		shutdowner := &mockShutdowner{}

		mockCLI.EXPECT().Execute().Return(0, nil)

		app := NewApp(mockCLI, shutdowner, mockLogger)
		app.Run()

		assert.Equal(t, 1, shutdowner.calls)

		select {
		case <-app.done:
		default:
			t.Fatal("done channel not closed")
		}
	})

	t.Run("Logs a failed shutdown", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockCLI := cli.NewMockCLI(ctrl)
		mockLogger := logger.NewMockLogger(ctrl)
		shutdowner := &mockShutdowner{err: errors.New("already stopping")}

		mockCLI.EXPECT().Execute().Return(0, nil)
		mockLogger.EXPECT().Error().Return(nil)

		NewApp(mockCLI, shutdowner, mockLogger).Run()

		assert.Equal(t, 1, shutdowner.calls)
	})
}

func Test_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCLI := cli.NewMockCLI(ctrl)
	mockLogger := logger.NewMockLogger(ctrl)
	app := NewApp(mockCLI, &mockShutdowner{}, mockLogger)

	var registered bool
	var capturedHook fx.Hook

	testLifecycle := &mockLifecycle{
		onAppend: func(hook fx.Hook) {
			registered = true
			capturedHook = hook
		},
	}

	Register(testLifecycle, app)

	assert.True(t, registered)
	assert.NotNil(t, capturedHook.OnStart)
	assert.NotNil(t, capturedHook.OnStop)
}

func Test_Register_Hooks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCLI := cli.NewMockCLI(ctrl)
	mockLogger := logger.NewMockLogger(ctrl)
	shutdowner := &mockShutdowner{}

	mockCLI.EXPECT().Execute().Return(0, nil)

	app := NewApp(mockCLI, shutdowner, mockLogger)

	var capturedHook fx.Hook

	Register(&mockLifecycle{onAppend: func(hook fx.Hook) { capturedHook = hook }}, app)

	assert.NoError(t, capturedHook.OnStart(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, capturedHook.OnStop(ctx))
}

func Test_Register_OnStopTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	app := NewApp(cli.NewMockCLI(ctrl), &mockShutdowner{}, logger.NewMockLogger(ctrl))

	var capturedHook fx.Hook

	Register(&mockLifecycle{onAppend: func(hook fx.Hook) { capturedHook = hook }}, app)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, capturedHook.OnStop(ctx), context.Canceled)
}
