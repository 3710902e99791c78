package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"logscope/internal/app/entry"
	"logscope/internal/config"
	"logscope/internal/config/logger"
)

// MessageType represents the type of message
type MessageType string

// Event types
const (
	EventFolderLoaded     MessageType = "folder_loaded"
	EventBatchIngested    MessageType = "batch_ingested"
	EventBatchDropped     MessageType = "batch_dropped"
	EventCleared          MessageType = "cleared"
	EventExported         MessageType = "exported"
	EventPaused           MessageType = "paused"
	EventResumed          MessageType = "resumed"
	EventFilterChanged    MessageType = "filter_changed"
	EventSelectionChanged MessageType = "selection_changed"
	EventSessionFailed    MessageType = "session_failed"
	EventWatchStarted     MessageType = "watch_started"
	EventWatchStopped     MessageType = "watch_stopped"
)

// Message represents a bus message
type Message struct {
	Type      MessageType
	Timestamp time.Time
	Data      any
	Critical  bool
}

// FolderLoaded reports a completed folder load
type FolderLoaded struct {
	Folder  string
	Entries int
}

// Batch reports a batch offered to the store
type Batch struct {
	Count   int
	Entries []entry.Entry
}

// Exported reports a written export
type Exported struct {
	Path    string
	Entries int
}

// SessionFailed reports a failed session operation
type SessionFailed struct {
	Folder string
	Error  error
}

// Folder names the folder a watch event is about
type Folder struct {
	Path string
}

// Bus handles pub/sub messaging
type Bus interface {
	Subscribe(ctx context.Context) <-chan Message
	Publish(msg Message)
	Close()
}

// bus implements the Bus interface with pub/sub messaging
type bus struct {
	buffer      int
	subscribers []*subscriber
	mu          sync.RWMutex
	closed      bool
	log         logger.Logger
}

// subscriber queues critical messages that did not fit its channel. While the
// queue is non-empty every new message goes behind it
type subscriber struct {
	ch       chan Message
	mu       sync.Mutex
	overflow []Message
	draining bool
	done     chan struct{}
	wg       sync.WaitGroup
}

// New creates a new Bus; log may be nil
func New(cfg *config.Config, log logger.Logger) Bus {
	buffer := cfg.Bus.Buffer
	if buffer <= 0 {
		buffer = config.DefaultBusBuffer
	}

	return &bus{
		buffer:      buffer,
		subscribers: make([]*subscriber, 0),
		log:         log,
	}
}

// Subscribe creates a subscription channel that closes when ctx is done
func (b *bus) Subscribe(ctx context.Context) <-chan Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscriber{
		ch:   make(chan Message, b.buffer),
		done: make(chan struct{}),
	}

	if b.closed {
		close(sub.ch)
		return sub.ch
	}

	b.subscribers = append(b.subscribers, sub)

	go func() {
		<-ctx.Done()
		b.unsubscribe(sub)
	}()

	return sub.ch
}

// Publish sends a message to all subscribers without blocking. A critical
// message that does not fit a full buffer is queued and delivered in
// publish order
func (b *bus) Publish(msg Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	msg.Timestamp = time.Now()

	if b.log != nil {
		b.log.Debug().Msgf("%s %s", msg.Type, formatData(msg.Data))
	}

	for _, sub := range b.subscribers {
		sub.offer(msg)
	}
}

func (s *subscriber) offer(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.overflow) == 0 {
		select {
		case s.ch <- msg:
			return
		default:
		}
	}

	if !msg.Critical {
		return
	}

	s.overflow = append(s.overflow, msg)

	if !s.draining {
		s.draining = true
		s.wg.Add(1)

		go s.drain()
	}
}

func (s *subscriber) drain() {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		if len(s.overflow) == 0 {
			s.draining = false
			s.mu.Unlock()

			return
		}

		msg := s.overflow[0]
		s.mu.Unlock()

		select {
		case s.ch <- msg:
		case <-s.done:
			return
		}

		s.mu.Lock()
		s.overflow[0] = Message{}
		s.overflow = s.overflow[1:]
		s.mu.Unlock()
	}
}

// close stops the drainer before closing the channel so no send can race it
func (s *subscriber) close() {
	close(s.done)
	s.wg.Wait()
	close(s.ch)
}

// Close closes all subscriber channels
func (b *bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true

	for _, sub := range b.subscribers {
		sub.close()
	}

	b.subscribers = nil
}

func (b *bus) unsubscribe(target *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub == target {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)

			sub.close()

			break
		}
	}
}

func formatData(data any) string {
	switch d := data.(type) {
	case nil:
		return "{}"
	case FolderLoaded:
		return fmt.Sprintf("{folder: %s, entries: %d}", d.Folder, d.Entries)
	case Batch:
		return fmt.Sprintf("{count: %d}", d.Count)
	case Exported:
		return fmt.Sprintf("{path: %s, entries: %d}", d.Path, d.Entries)
	case SessionFailed:
		return fmt.Sprintf("{folder: %s, error: %v}", d.Folder, d.Error)
	case Folder:
		return fmt.Sprintf("{folder: %s}", d.Path)
	default:
		return fmt.Sprintf("%+v", data)
	}
}

// NoOp returns a bus that drops every message
func NoOp() Bus {
	return &noOpBus{}
}

// noOpBus implements Bus interface with no-op methods
type noOpBus struct{}

func (n *noOpBus) Subscribe(ctx context.Context) <-chan Message {
	ch := make(chan Message)

	go func() {
		<-ctx.Done()
		close(ch)
	}()

	return ch
}

func (n *noOpBus) Publish(msg Message) {}
func (n *noOpBus) Close()              {}
