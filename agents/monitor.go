package agents

import (
	"context"
	"fmt"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/intelligence"
)

// Monitor extracts insights from the session's event stream and audits its
// integrity (ordering, missing correlations, suspicious gaps between
// question and answer events). The caller renders the stream into a textual
// digest under the "events_digest" metadata key.
type Monitor struct {
	baseAgent
}

// NewMonitor creates a Monitor backed by the given boundary.
func NewMonitor(boundary *intelligence.Boundary) *Monitor {
	return &Monitor{baseAgent: newBaseAgent("Monitor", boundary)}
}

// Process implements core.Agent.
func (a *Monitor) Process(ctx context.Context, c *core.Context) (*core.InferenceOutput, error) {
	digest, ok := c.MetaString("events_digest")
	if !ok {
		return nil, contractError("monitor", "events_digest")
	}
	prompt := fmt.Sprintf(
		"Audit this interview event stream digest for integrity issues and extract "+
			"noteworthy insights:\n%s\n"+
			"%s\n"+
			`action_data must contain {"insights": [...], "integrity_issues": [...]}.`,
		digest,
		envelope("extract_insights"),
	)
	return a.boundary.GenerateStructured(ctx, prompt), nil
}
