package eventlog

import "fmt"

var (
	// errEmptySessionID rejects events without an aggregate identity; a
	// sequence number cannot be assigned to an unkeyed stream.
	errEmptySessionID = fmt.Errorf("event has no session id")
)
