package intelligence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundary_ParsesStructuredReply(t *testing.T) {
	provider := NewMockProvider()
	provider.SetFallback(`Sure, here is my assessment:
{"thought": "the answer covers scheduling", "action_type": "score_answer", "action_data": {"scores": {"overall": 75}}}`)
	boundary := NewBoundary(provider)

	out := boundary.GenerateStructured(context.Background(), "score this answer")

	require.NotNil(t, out)
	assert.False(t, out.IsDegraded())
	assert.Equal(t, "the answer covers scheduling", out.Thought)
	assert.Equal(t, "score_answer", out.ActionType)
	data, ok := out.DataMap()
	require.True(t, ok)
	assert.Contains(t, data, "scores")
	assert.NotEmpty(t, out.RawResponse)
}

func TestBoundary_ProseReplyDegrades(t *testing.T) {
	provider := NewMockProvider()
	provider.SetFallback("I think the candidate did quite well overall.")
	boundary := NewBoundary(provider)

	out := boundary.GenerateStructured(context.Background(), "anything")

	require.NotNil(t, out)
	assert.True(t, out.IsDegraded())
	assert.Equal(t, core.ActionDirectResponse, out.ActionType)
	assert.NotEmpty(t, out.Thought, "degraded output must still explain itself")
	data, ok := out.DataMap()
	require.True(t, ok)
	assert.Equal(t, "I think the candidate did quite well overall.", data["text"])
}

func TestBoundary_ProviderErrorDegrades(t *testing.T) {
	provider := NewMockProvider()
	provider.FailWith(errors.New("connection refused"))
	boundary := NewBoundary(provider)

	out := boundary.GenerateStructured(context.Background(), "anything")

	require.NotNil(t, out)
	assert.True(t, out.IsDegraded())
	assert.Contains(t, out.Thought, "connection refused")
	data, ok := out.DataMap()
	require.True(t, ok)
	assert.NotEmpty(t, data["text"])
}

func TestBoundary_TimeoutDegrades(t *testing.T) {
	boundary := NewBoundary(slowProvider{}, func(o *BoundaryOptions) {
		o.Timeout = 10 * time.Millisecond
	})

	out := boundary.GenerateStructured(context.Background(), "anything")

	require.NotNil(t, out)
	assert.True(t, out.IsDegraded())
	assert.NotEmpty(t, out.Thought)
}

func TestBoundary_MissingActionTypeDegrades(t *testing.T) {
	provider := NewMockProvider()
	provider.SetFallback(`{"thought": "no action specified"}`)
	boundary := NewBoundary(provider)

	out := boundary.GenerateStructured(context.Background(), "anything")
	assert.True(t, out.IsDegraded())
}

func TestBoundary_EmptyThoughtIsFilled(t *testing.T) {
	provider := NewMockProvider()
	provider.SetFallback(`{"action_type": "ask_question", "action_data": {"question_text": "Why Go?"}}`)
	boundary := NewBoundary(provider)

	out := boundary.GenerateStructured(context.Background(), "anything")
	assert.False(t, out.IsDegraded())
	assert.Equal(t, "ask_question", out.ActionType)
	assert.NotEmpty(t, out.Thought)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "bare object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
			ok:    true,
		},
		{
			name:  "markdown fenced",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
			ok:    true,
		},
		{
			name:  "prose around object",
			input: `Here you go: {"a": {"b": 2}} hope that helps`,
			want:  `{"a": {"b": 2}}`,
			ok:    true,
		},
		{
			name:  "braces inside strings",
			input: `{"text": "use {} literals", "n": 1}`,
			want:  `{"text": "use {} literals", "n": 1}`,
			ok:    true,
		},
		{
			name:  "escaped quote inside string",
			input: `{"text": "she said \"{\" loudly"}`,
			want:  `{"text": "she said \"{\" loudly"}`,
			ok:    true,
		},
		{
			name:  "unbalanced object",
			input: `{"a": 1`,
			ok:    false,
		},
		{
			name:  "no object at all",
			input: "just prose",
			ok:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

// slowProvider blocks until the call context expires.
type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ string, _ GenerationConfig) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (slowProvider) Name() string { return "slow" }
