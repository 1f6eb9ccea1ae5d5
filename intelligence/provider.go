// Package intelligence is the single seam between the interview core and the
// external language-model provider. Agents never talk to a provider directly:
// they hand a prompt to the Boundary, which applies a bounded deadline, asks
// the provider for raw text and normalizes the reply into the standard
// core.InferenceOutput shape. All model unreliability (provider errors,
// timeouts, unparseable replies) is absorbed here and surfaces as a degraded
// output, never as an error.
package intelligence

import (
	"context"
	"fmt"
	"strings"
)

// GenerationConfig carries the tuning knobs forwarded to a provider call.
type GenerationConfig struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int64   `json:"max_tokens"`
}

// Provider is the opaque external language-model collaborator. Its identity
// and internal behavior are out of scope; this is the whole contract.
type Provider interface {
	// Generate produces raw text for the prompt. It may fail or time out.
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error)

	// Name identifies the provider in logs.
	Name() string
}

// MockProvider is a deterministic in-memory Provider for tests and examples,
// mirroring the canned-response approach of a mock model.
type MockProvider struct {
	responses map[string]string
	contains  []containsRule
	fallback  string
	err       error
}

type containsRule struct {
	substr   string
	response string
}

// NewMockProvider constructs an empty mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{responses: make(map[string]string)}
}

// AddResponse registers a canned reply for an exact prompt.
func (m *MockProvider) AddResponse(prompt, response string) { m.responses[prompt] = response }

// AddResponseContains registers a canned reply for any prompt containing
// substr. Rules are checked in registration order after exact matches.
func (m *MockProvider) AddResponseContains(substr, response string) {
	m.contains = append(m.contains, containsRule{substr: substr, response: response})
}

// SetFallback sets the reply returned for prompts without a canned response.
func (m *MockProvider) SetFallback(response string) { m.fallback = response }

// FailWith makes every Generate call return err.
func (m *MockProvider) FailWith(err error) { m.err = err }

// Generate implements Provider.
func (m *MockProvider) Generate(ctx context.Context, prompt string, _ GenerationConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.err != nil {
		return "", m.err
	}
	if resp, ok := m.responses[prompt]; ok {
		return resp, nil
	}
	for _, rule := range m.contains {
		if strings.Contains(prompt, rule.substr) {
			return rule.response, nil
		}
	}
	if m.fallback != "" {
		return m.fallback, nil
	}
	return fmt.Sprintf("Mock response to: %s", prompt), nil
}

// Name implements Provider.
func (m *MockProvider) Name() string { return "mock" }
