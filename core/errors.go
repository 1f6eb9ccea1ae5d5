package core

import (
	"errors"
	"fmt"
)

// NotFoundError reports a dispatch to an unregistered agent name. It is a
// contract error: it propagates to the dispatcher's caller and performs no
// side effects.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("agent %q is not registered", e.Name)
}

// SequenceConflictError reports that two writers raced on the same session's
// next sequence number. It must be retried with a fresh read of the current
// maximum; it is never silently ignored.
type SequenceConflictError struct {
	SessionID      string
	SequenceNumber int64
}

func (e *SequenceConflictError) Error() string {
	return fmt.Sprintf("sequence conflict on session %s at %d", e.SessionID, e.SequenceNumber)
}

// PersistenceError wraps a storage failure during an event insert or a
// projection upsert. The operation degrades to "not recorded" / "view may be
// stale"; it never crashes the caller.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ProjectionError reports one projection's handler failing on one event. The
// router isolates it: other projections and the already-committed event are
// unaffected.
type ProjectionError struct {
	Projection string
	EventType  string
	Err        error
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("projection %s failed on %s: %v", e.Projection, e.EventType, e.Err)
}

func (e *ProjectionError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsSequenceConflict reports whether err is (or wraps) a SequenceConflictError.
func IsSequenceConflict(err error) bool {
	var sc *SequenceConflictError
	return errors.As(err, &sc)
}
