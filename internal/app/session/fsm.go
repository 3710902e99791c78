package session

import (
	"context"

	"github.com/looplab/fsm"

	"logscope/internal/config/logger"
)

// FSM states
const (
	Idle     = "idle"
	Loading  = "loading"
	Watching = "watching"
	Failed   = "failed"
	Closed   = "closed"
)

// FSM events
const (
	Load     = "load"
	Ready    = "ready"
	Fail     = "fail"
	Shutdown = "shutdown"
)

// newSessionFSM creates the state machine tracking the folder lifecycle
func newSessionFSM(log logger.Logger) *fsm.FSM {
	return fsm.NewFSM(
		Idle,
		fsm.Events{
			{Name: Load, Src: []string{Idle, Watching, Failed}, Dst: Loading},
			{Name: Ready, Src: []string{Loading}, Dst: Watching},
			{Name: Fail, Src: []string{Loading}, Dst: Failed},
			{Name: Shutdown, Src: []string{Idle, Loading, Watching, Failed}, Dst: Closed},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				log.Debug().Msgf("STATE %s → %s (trigger: %s)", e.Src, e.Dst, e.Event)
			},
		},
	)
}
