package eventlog

import (
	"context"
	"sync"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/logging"
)

// Router is the projection fan-out invoked after a successful append. It is
// satisfied by *projection.Router; the indirection keeps this package free of
// a dependency on concrete read models.
type Router interface {
	Dispatch(event core.Event) []error
}

// noopRouter drops events; used when no projections are registered.
type noopRouter struct{}

func (noopRouter) Dispatch(core.Event) []error { return nil }

// Options configure an event store.
type Options struct {
	// Router receives every successfully appended event. Defaults to a
	// no-op fan-out.
	Router Router
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// InMemoryStore is a volatile core.EventLog implementation keeping each
// session's events in a process-local slice. It is safe for concurrent use:
// appends to the same session are serialized by a per-session writer lock so
// sequence numbers stay gap-free under concurrent callers.
type InMemoryStore struct {
	mu      sync.RWMutex
	events  map[string][]core.Event
	writers map[string]*sync.Mutex
	router  Router
	logger  logging.Logger
}

// NewInMemoryStore constructs an empty in-memory event log.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{Router: noopRouter{}, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{
		events:  make(map[string][]core.Event),
		writers: make(map[string]*sync.Mutex),
		router:  opts.Router,
		logger:  opts.Logger,
	}
}

// Append implements core.EventLog. The event is sequenced at max+1 for its
// session, stored, and only then fanned out to projections. Projection
// dispatch is synchronous: when Append returns, the monitoring views reflect
// the new event (read-your-writes).
func (s *InMemoryStore) Append(ctx context.Context, event core.Event) (core.Event, error) {
	if err := ctx.Err(); err != nil {
		return core.Event{}, &core.PersistenceError{Op: "append", Err: err}
	}
	if event.SessionID == "" {
		return core.Event{}, &core.PersistenceError{Op: "append", Err: errEmptySessionID}
	}

	writer := s.writerFor(event.SessionID)
	writer.Lock()
	defer writer.Unlock()

	stored := event.Clone()
	if stored.ID == "" {
		stored.ID = core.NewID()
	}

	s.mu.Lock()
	stored.SequenceNumber = int64(len(s.events[event.SessionID])) + 1
	s.events[event.SessionID] = append(s.events[event.SessionID], stored)
	s.mu.Unlock()

	s.logger.Debug("event appended", "session_id", stored.SessionID, "event_type", stored.EventType, "sequence_number", stored.SequenceNumber)

	// Projection failures are isolated and logged by the router; they never
	// undo the append.
	s.router.Dispatch(stored.Clone())

	return stored.Clone(), nil
}

// GetEvents implements core.EventLog returning defensive copies in ascending
// sequence order.
func (s *InMemoryStore) GetEvents(ctx context.Context, sessionID string) ([]core.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, &core.PersistenceError{Op: "get_events", Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.events[sessionID]
	events := make([]core.Event, 0, len(stored))
	for _, ev := range stored {
		events = append(events, ev.Clone())
	}
	return events, nil
}

// writerFor returns the per-session append lock, creating it on first use.
func (s *InMemoryStore) writerFor(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.writers[sessionID]
	if !ok {
		w = &sync.Mutex{}
		s.writers[sessionID] = w
	}
	return w
}
