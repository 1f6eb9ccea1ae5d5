package core

// ActionDirectResponse is the degraded action type produced when structured
// output could not be obtained from the intelligence provider. Callers that
// see it should treat ActionData["text"] as the best-effort raw reply.
const ActionDirectResponse = "direct_response"

// InferenceOutput is the uniform result shape returned by every agent.
//
// Thought is the system's sole transparency mechanism and must always be
// populated, including on degraded/fallback paths. ActionType names the
// structured action the model chose (or ActionDirectResponse when parsing
// failed) and ActionData carries its payload. RawResponse preserves the
// unprocessed provider reply when available.
type InferenceOutput struct {
	Thought     string `json:"thought"`
	ActionType  string `json:"action_type"`
	ActionData  any    `json:"action_data"`
	RawResponse string `json:"raw_response,omitempty"`
}

// IsDegraded reports whether this output came from the fallback path of the
// intelligence boundary rather than from parsed structured output.
func (o *InferenceOutput) IsDegraded() bool { return o.ActionType == ActionDirectResponse }

// DataMap returns ActionData as a map when it is one, so callers can pull
// named fields out of structured actions without a type switch.
func (o *InferenceOutput) DataMap() (map[string]any, bool) {
	m, ok := o.ActionData.(map[string]any)
	return m, ok
}
