// Package sqlite provides a durable core.EventLog backed by an embedded
// sqlite database (modernc.org/sqlite, no cgo). The per-session ordering
// invariant is enforced twice: a per-session writer lock serializes appends
// in-process, and UNIQUE(session_id, sequence_number) catches any writer this
// process does not know about, surfacing the race as a
// core.SequenceConflictError that is retried with a fresh read of the
// current maximum.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/eventlog"
	"github.com/hupe1980/interviewmesh/logging"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id              TEXT PRIMARY KEY,
	session_id      TEXT NOT NULL,
	event_type      TEXT NOT NULL,
	event_data      TEXT NOT NULL,
	event_metadata  TEXT NOT NULL,
	sequence_number INTEGER NOT NULL,
	occurred_at     INTEGER NOT NULL,
	UNIQUE (session_id, sequence_number)
);
CREATE INDEX IF NOT EXISTS idx_events_session ON events (session_id, sequence_number);
`

// maxAppendRetries bounds how often a conflicting append is retried before
// the conflict is handed to the caller.
const maxAppendRetries = 5

// Options configure the sqlite store.
type Options struct {
	// Router receives every successfully appended event. Defaults to a
	// no-op fan-out.
	Router eventlog.Router
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Store is a durable core.EventLog.
type Store struct {
	db      *sql.DB
	mu      sync.Mutex
	writers map[string]*sync.Mutex
	router  eventlog.Router
	logger  logging.Logger
}

type noopRouter struct{}

func (noopRouter) Dispatch(core.Event) []error { return nil }

// Open creates (or opens) the database at path and prepares the schema.
// Use ":memory:" for an ephemeral database.
func Open(path string, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{Router: noopRouter{}, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// The modernc driver is not safe for concurrent writes over multiple
	// connections to the same file; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare schema: %w", err)
	}
	return &Store{
		db:      db,
		writers: make(map[string]*sync.Mutex),
		router:  opts.Router,
		logger:  opts.Logger,
	}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Append implements core.EventLog. Sequencing runs inside a transaction:
// read the session's current maximum, insert at max+1, commit. A UNIQUE
// violation means another writer won the slot; the transaction is rolled
// back and the whole cycle retried against the fresh maximum. Projection
// dispatch happens only after a successful commit.
func (s *Store) Append(ctx context.Context, event core.Event) (core.Event, error) {
	if event.SessionID == "" {
		return core.Event{}, &core.PersistenceError{Op: "append", Err: fmt.Errorf("event has no session id")}
	}

	writer := s.writerFor(event.SessionID)
	writer.Lock()
	defer writer.Unlock()

	stored := event.Clone()
	if stored.ID == "" {
		stored.ID = core.NewID()
	}
	if stored.OccurredAt.IsZero() {
		stored.OccurredAt = time.Now().UTC()
	}

	var lastConflict error
	for attempt := 0; attempt < maxAppendRetries; attempt++ {
		seq, err := s.tryInsert(ctx, &stored)
		if err == nil {
			stored.SequenceNumber = seq
			s.logger.Debug("event appended", "session_id", stored.SessionID, "event_type", stored.EventType, "sequence_number", seq)
			s.router.Dispatch(stored.Clone())
			return stored.Clone(), nil
		}
		if !core.IsSequenceConflict(err) {
			return core.Event{}, err
		}
		lastConflict = err
	}
	return core.Event{}, lastConflict
}

// tryInsert runs one read-max / insert cycle, returning the assigned
// sequence number or a SequenceConflictError when the slot was taken.
func (s *Store) tryInsert(ctx context.Context, event *core.Event) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &core.PersistenceError{Op: "append", Err: err}
	}
	defer tx.Rollback()

	var maxSeq int64
	row := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(sequence_number), 0) FROM events WHERE session_id = ?`, event.SessionID)
	if err := row.Scan(&maxSeq); err != nil {
		return 0, &core.PersistenceError{Op: "append", Err: err}
	}
	next := maxSeq + 1

	data, err := json.Marshal(event.EventData)
	if err != nil {
		return 0, &core.PersistenceError{Op: "append", Err: err}
	}
	metadata, err := json.Marshal(event.EventMetadata)
	if err != nil {
		return 0, &core.PersistenceError{Op: "append", Err: err}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (id, session_id, event_type, event_data, event_metadata, sequence_number, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.SessionID, event.EventType, string(data), string(metadata), next, event.OccurredAt.UnixMilli())
	if err != nil {
		if isConstraintError(err) {
			return 0, &core.SequenceConflictError{SessionID: event.SessionID, SequenceNumber: next}
		}
		return 0, &core.PersistenceError{Op: "append", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return 0, &core.PersistenceError{Op: "append", Err: err}
	}
	return next, nil
}

// GetEvents implements core.EventLog.
func (s *Store) GetEvents(ctx context.Context, sessionID string) ([]core.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, event_type, event_data, event_metadata, sequence_number, occurred_at
		 FROM events WHERE session_id = ? ORDER BY sequence_number ASC`, sessionID)
	if err != nil {
		return nil, &core.PersistenceError{Op: "get_events", Err: err}
	}
	defer rows.Close()

	var events []core.Event
	for rows.Next() {
		var (
			ev           core.Event
			data, meta   string
			occurredUnix int64
		)
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.EventType, &data, &meta, &ev.SequenceNumber, &occurredUnix); err != nil {
			return nil, &core.PersistenceError{Op: "get_events", Err: err}
		}
		if err := json.Unmarshal([]byte(data), &ev.EventData); err != nil {
			return nil, &core.PersistenceError{Op: "get_events", Err: fmt.Errorf("decode event_data: %w", err)}
		}
		if err := json.Unmarshal([]byte(meta), &ev.EventMetadata); err != nil {
			return nil, &core.PersistenceError{Op: "get_events", Err: fmt.Errorf("decode event_metadata: %w", err)}
		}
		ev.OccurredAt = time.UnixMilli(occurredUnix).UTC()
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.PersistenceError{Op: "get_events", Err: err}
	}
	return events, nil
}

func (s *Store) writerFor(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.writers[sessionID]
	if !ok {
		w = &sync.Mutex{}
		s.writers[sessionID] = w
	}
	return w
}

// isConstraintError reports whether err is a sqlite uniqueness violation.
func isConstraintError(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	default:
		return false
	}
}
