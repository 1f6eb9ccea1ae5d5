package agents

import (
	"context"
	"fmt"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/intelligence"
)

// Interpreter decodes raw, possibly ambiguous input into its semantic
// intent, e.g. classifying a free-form candidate reply as an answer, a
// clarification request or an aside.
type Interpreter struct {
	baseAgent
}

// NewInterpreter creates an Interpreter backed by the given boundary.
func NewInterpreter(boundary *intelligence.Boundary) *Interpreter {
	return &Interpreter{baseAgent: newBaseAgent("Interpreter", boundary)}
}

// Process implements core.Agent.
func (a *Interpreter) Process(ctx context.Context, c *core.Context) (*core.InferenceOutput, error) {
	req, err := decodeRequestFrom(c)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(
		"Decode the semantic intent of this raw input:\n%s\n"+
			"Classify it and extract the substantive content.\n"+
			"%s\n"+
			`action_data must contain {"intent": "...", "content": "..."}.`,
		req.RawInput,
		envelope("decode_input"),
	)
	return a.boundary.GenerateStructured(ctx, prompt), nil
}
