package intelligence

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/logging"
)

// BoundaryOptions configure a Boundary.
type BoundaryOptions struct {
	// Timeout bounds every provider call. On expiry the boundary follows
	// the same degraded path as a parse failure.
	Timeout time.Duration
	// Generation is forwarded to the provider on every call.
	Generation GenerationConfig
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Boundary normalizes provider replies into core.InferenceOutput. It is the
// one place in the system that deals with model unreliability: whether the
// provider errors, hangs past the deadline or returns prose instead of JSON,
// GenerateStructured returns a usable output and never an error.
type Boundary struct {
	provider   Provider
	timeout    time.Duration
	generation GenerationConfig
	logger     logging.Logger
}

// NewBoundary wraps a provider.
func NewBoundary(provider Provider, optFns ...func(o *BoundaryOptions)) *Boundary {
	opts := BoundaryOptions{
		Timeout:    60 * time.Second,
		Generation: GenerationConfig{Temperature: 0.7, MaxTokens: 4096},
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Boundary{provider: provider, timeout: opts.Timeout, generation: opts.Generation, logger: opts.Logger}
}

// structuredReply is the JSON object the system asks models to produce.
type structuredReply struct {
	Thought    string `json:"thought"`
	ActionType string `json:"action_type"`
	ActionData any    `json:"action_data"`
}

// GenerateStructured delegates to the provider, locates a JSON object in the
// raw reply and maps its fields into an InferenceOutput. On any provider or
// parse failure it returns the degraded direct_response shape with a thought
// explaining what went wrong. It never returns an error or panics.
func (b *Boundary) GenerateStructured(ctx context.Context, prompt string) *core.InferenceOutput {
	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	raw, err := b.provider.Generate(callCtx, prompt, b.generation)
	if err != nil {
		b.logger.Warn("provider call failed", "provider", b.provider.Name(), "duration", time.Since(start), "error", err)
		return degraded(
			"Provider call failed before structured output could be obtained: "+err.Error(),
			"The model provider did not return a response.",
			raw,
		)
	}
	b.logger.Debug("provider call completed", "provider", b.provider.Name(), "duration", time.Since(start))

	candidate, ok := extractJSONObject(raw)
	if !ok {
		return degraded(
			"Structured parsing failed: no JSON object found in the model reply; passing the raw text through.",
			strings.TrimSpace(raw),
			raw,
		)
	}

	var reply structuredReply
	if err := json.Unmarshal([]byte(candidate), &reply); err != nil || reply.ActionType == "" {
		return degraded(
			"Structured parsing failed: the model reply contained malformed or incomplete JSON; passing the raw text through.",
			strings.TrimSpace(raw),
			raw,
		)
	}

	if reply.Thought == "" {
		// Thought is the transparency channel and must never be empty.
		reply.Thought = "Model returned a structured action without explaining its reasoning."
	}

	return &core.InferenceOutput{
		Thought:     reply.Thought,
		ActionType:  reply.ActionType,
		ActionData:  reply.ActionData,
		RawResponse: raw,
	}
}

// degraded builds the fallback output. The text payload is a best-effort
// carrier: the raw reply when there is one, an explanatory placeholder when
// there is not.
func degraded(thought, text, raw string) *core.InferenceOutput {
	if text == "" {
		text = "No usable model output was produced."
	}
	return &core.InferenceOutput{
		Thought:     thought,
		ActionType:  core.ActionDirectResponse,
		ActionData:  map[string]any{"text": text},
		RawResponse: raw,
	}
}

// extractJSONObject returns the first balanced top-level JSON object in s.
// Models habitually wrap JSON in prose or markdown fences, so scanning for a
// balanced object is more robust than unmarshalling the whole reply.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
