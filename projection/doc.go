// Package projection contains the router that fans appended events out to
// registered read models, and the three concrete read models derived from the
// interview event stream: session lifecycle state, per-question Q&A rows and
// the running performance aggregate.
//
// Every handler is an idempotent upsert keyed by its natural key, so replaying
// a session's full event list into a fresh projection any number of times
// produces identical state. A missing correlating key (for example a score
// whose question was never recorded) is skipped and counted as a soft
// anomaly, never raised.
package projection
