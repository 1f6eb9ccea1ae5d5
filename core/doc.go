// Package core defines the shared contracts of InterviewMesh: the immutable
// Event record and its per-session ordering guarantee, the Context /
// InferenceOutput agent protocol, the EventLog, Projection and Notifier
// service interfaces, the strategy state carried by a session, and the error
// taxonomy used across packages.
//
// Implementations live in sibling packages (eventlog, projection, dispatch,
// agents, intelligence, strategy, interview); core deliberately has no
// dependencies beyond the standard library and uuid so every other package
// can import it without cycles.
package core
