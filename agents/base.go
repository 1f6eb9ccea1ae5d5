// Package agents contains the concrete reasoning workers dispatched against
// the uniform Agent protocol. Every role differs only in the typed request it
// decodes from the call context, the prompt it builds from that request and
// the action type it asks the model to return; all provider access funnels
// through the intelligence boundary, so no agent ever sees a raw provider
// error or an unparseable reply.
package agents

import (
	"fmt"
	"strings"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/intelligence"
)

// baseAgent bundles the identity and boundary handle shared by every role.
// Embed it and supply Process to satisfy core.Agent.
type baseAgent struct {
	name     string
	boundary *intelligence.Boundary
}

func newBaseAgent(name string, boundary *intelligence.Boundary) baseAgent {
	return baseAgent{name: name, boundary: boundary}
}

// Name implements core.Agent.
func (b *baseAgent) Name() string { return b.name }

// envelope instructs the model to answer in the standard structured shape
// with the role's action type. Every role prepends this to its prompt.
func envelope(actionType string) string {
	return fmt.Sprintf(
		"Respond with a single JSON object of the form "+
			`{"thought": "<your reasoning>", "action_type": %q, "action_data": {...}}. `+
			"Populate thought with your actual reasoning; never leave it empty.",
		actionType,
	)
}

// historySection renders prior turns into a prompt block, or an empty string
// when there is no history to show.
func historySection(history []core.Turn) string {
	if len(history) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Conversation so far:\n")
	for _, turn := range history {
		sb.WriteString(turn.Role)
		sb.WriteString(": ")
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

// contractError reports missing task metadata. It is a programming/contract
// error and propagates to the dispatcher's caller, unlike model failures
// which are absorbed at the boundary.
func contractError(agent, field string) error {
	return fmt.Errorf("%s: required metadata field %q is missing or malformed", agent, field)
}
