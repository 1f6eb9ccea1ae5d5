// Package eventlog implements the append-only, per-session ordered event
// record. Two stores are provided: a volatile in-memory store suited to tests
// and ephemeral sessions, and a durable sqlite-backed store (subpackage
// sqlite) that enforces the per-session sequence invariant with a uniqueness
// constraint and retry-on-conflict.
//
// Sequence assignment is read-then-write and therefore unsafe under
// concurrent writers to the same session. Both stores serialize appends with
// a per-session writer lock; the sqlite store additionally backs the
// invariant with UNIQUE(session_id, sequence_number) so a racing writer
// surfaces as a core.SequenceConflictError and is retried with a fresh read
// of the current maximum.
package eventlog
