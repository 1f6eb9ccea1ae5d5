package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/intelligence"
)

// Watcher assesses infrastructure and telemetry health from whatever metrics
// the caller passes under the "telemetry" metadata key.
type Watcher struct {
	baseAgent
}

// NewWatcher creates a Watcher backed by the given boundary.
func NewWatcher(boundary *intelligence.Boundary) *Watcher {
	return &Watcher{baseAgent: newBaseAgent("Watcher", boundary)}
}

// Process implements core.Agent.
func (a *Watcher) Process(ctx context.Context, c *core.Context) (*core.InferenceOutput, error) {
	telemetry := "{}"
	if c.Metadata != nil {
		if raw, ok := c.Metadata["telemetry"]; ok {
			if encoded, err := json.Marshal(raw); err == nil {
				telemetry = string(encoded)
			}
		}
	}
	prompt := fmt.Sprintf(
		"Assess the health of the interview infrastructure from this telemetry snapshot:\n%s\n"+
			"Flag anything degraded and rate the overall status.\n"+
			"%s\n"+
			`action_data must contain {"status": "healthy"|"degraded"|"critical", "findings": [...]}.`,
		telemetry,
		envelope("report_health"),
	)
	return a.boundary.GenerateStructured(ctx, prompt), nil
}
