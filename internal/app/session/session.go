package session

//go:generate mockgen -source=session.go -destination=session_mock.go -package=session

import (
	"context"
	"sync"

	"github.com/looplab/fsm"
	"go.uber.org/fx"

	"logscope/internal/app/bus"
	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
	"logscope/internal/app/export"
	"logscope/internal/app/feed"
	"logscope/internal/app/loader"
	"logscope/internal/app/selection"
	"logscope/internal/app/store"
	"logscope/internal/app/telemetry"
	"logscope/internal/config/logger"
)

// Session ties a watched folder to the log store
type Session interface {
	Open(ctx context.Context, path string) (int, error)
	Reload(ctx context.Context) (int, error)
	Clear()
	Export(ctx context.Context) (string, int, error)
	Close()
	Folder() string
	State() string
}

// Params contains the collaborators of a session
type Params struct {
	fx.In

	Store     store.Store
	Selection selection.Coordinator
	Loader    loader.Loader
	Feed      feed.Feed
	Sink      export.Sink
	Bus       bus.Bus
	Reporter  telemetry.Reporter
	Log       logger.Logger
}

// session implements the Session interface
type session struct {
	store     store.Store
	selection selection.Coordinator
	loader    loader.Loader
	feed      feed.Feed
	sink      export.Sink
	bus       bus.Bus
	reporter  telemetry.Reporter
	log       logger.Logger
	machine   *fsm.FSM
	folder    string
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
}

// New creates an idle session and forwards store changes to the bus
func New(params Params) Session {
	log := params.Log.WithComponent("SESSION")
	ctx, cancel := context.WithCancel(context.Background())

	s := &session{
		store:     params.Store,
		selection: params.Selection,
		loader:    params.Loader,
		feed:      params.Feed,
		sink:      params.Sink,
		bus:       params.Bus,
		reporter:  params.Reporter,
		log:       log,
		machine:   newSessionFSM(log),
		ctx:       ctx,
		cancel:    cancel,
	}

	s.store.OnChange(s.forward)

	return s
}

// Open loads path into the store, selects the first visible entry and starts
// streaming appended lines. On failure the store keeps its previous content
func (s *session) Open(ctx context.Context, path string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.open(ctx, path, true)
}

// Reload reads the open folder again; the selection is left empty
func (s *session) Reload(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.folder == "" {
		return 0, errors.ErrNoFolderOpen
	}

	return s.open(ctx, s.folder, false)
}

func (s *session) open(ctx context.Context, path string, reselect bool) (int, error) {
	if s.machine.Current() == Closed {
		return 0, errors.ErrSessionClosed
	}

	s.stopFeed()
	s.transition(Load)

	entries, err := s.loader.Load(ctx, path)
	if err != nil {
		return 0, s.fail("open", path, err)
	}

	if err := s.store.LoadInitial(entries); err != nil {
		return 0, s.fail("open", path, err)
	}

	s.folder = path

	if reselect {
		s.selection.SelectFirstMatch()
	}

	s.bus.Publish(bus.Message{
		Type: bus.EventFolderLoaded,
		Data: bus.FolderLoaded{Folder: path, Entries: len(entries)},
	})

	if err := s.feed.Start(s.ctx, path, s.ingest); err != nil {
		return len(entries), s.fail("watch", path, err)
	}

	s.transition(Ready)
	s.bus.Publish(bus.Message{Type: bus.EventWatchStarted, Data: bus.Folder{Path: path}})
	s.log.Info().Msgf("Opened %s with %d entries", path, len(entries))

	return len(entries), nil
}

// Clear empties the store. Offsets are kept so consumed lines are not delivered again
func (s *session) Clear() {
	s.selection.Clear()
}

// Export writes the filtered view through the sink
func (s *session) Export(ctx context.Context) (string, int, error) {
	view := s.store.FilteredView()

	payload, err := export.Encode(view)
	if err != nil {
		return "", 0, s.report("export", err)
	}

	path, err := s.sink.Write(ctx, payload)
	if err != nil {
		return "", 0, s.report("export", err)
	}

	s.bus.Publish(bus.Message{
		Type: bus.EventExported,
		Data: bus.Exported{Path: path, Entries: len(view)},
	})
	s.log.Info().Msgf("Exported %d entries to %s", len(view), path)

	return path, len(view), nil
}

// Close stops streaming; the session accepts no further folders
func (s *session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.machine.Current() == Closed {
		return
	}

	s.stopFeed()
	s.cancel()
	s.transition(Shutdown)
}

func (s *session) Folder() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.folder
}

func (s *session) State() string {
	return s.machine.Current()
}

// ingest hands a feed batch to the store and announces the outcome
func (s *session) ingest(batch []entry.Entry) bool {
	accepted := s.store.Ingest(batch)

	msgType := bus.EventBatchIngested
	if !accepted {
		msgType = bus.EventBatchDropped
	}

	s.bus.Publish(bus.Message{
		Type:     msgType,
		Data:     bus.Batch{Count: len(batch), Entries: batch},
		Critical: accepted,
	})

	return accepted
}

// forward publishes store changes that the session does not announce itself
func (s *session) forward(c store.Change) {
	var msgType bus.MessageType

	switch c.Kind {
	case store.Cleared:
		msgType = bus.EventCleared
	case store.Paused:
		msgType = bus.EventPaused
	case store.Resumed:
		msgType = bus.EventResumed
	case store.FilterChanged:
		msgType = bus.EventFilterChanged
	case store.SelectionChanged:
		msgType = bus.EventSelectionChanged
	default:
		return
	}

	s.bus.Publish(bus.Message{Type: msgType})
}

func (s *session) stopFeed() {
	if !s.feed.Running() {
		return
	}

	s.feed.Stop()
	s.bus.Publish(bus.Message{Type: bus.EventWatchStopped, Data: bus.Folder{Path: s.folder}})
}

func (s *session) transition(event string) {
	if err := s.machine.Event(context.Background(), event); err != nil {
		s.log.Warn().Err(err).Msgf("Ignored session event '%s' in state '%s'", event, s.machine.Current())
	}
}

// fail moves the session to failed and reports err
func (s *session) fail(operation, path string, err error) error {
	s.transition(Fail)

	s.bus.Publish(bus.Message{
		Type:     bus.EventSessionFailed,
		Data:     bus.SessionFailed{Folder: path, Error: err},
		Critical: true,
	})

	return s.report(operation, err)
}

func (s *session) report(operation string, err error) error {
	s.log.Error().Err(err).Msgf("Failed to %s", operation)
	s.reporter.Capture(err, map[string]string{"operation": operation})

	return err
}
