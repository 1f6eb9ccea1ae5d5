package core

// Turn is one prior exchange in the conversation history handed to an agent.
// Role follows the usual chat convention ("user", "assistant", "system").
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Context is the uniform input every agent receives. It is constructed per
// call by the dispatching side and consumed read-only by the agent; it is
// never persisted; only the events an agent's results produce are.
//
// Metadata is the open bag of task parameters at this outermost boundary.
// Concrete agents decode it into their typed request structures (see the
// agents package) rather than probing it by convention.
type Context struct {
	SessionID string         `json:"session_id"`
	Metadata  map[string]any `json:"metadata"`
	History   []Turn         `json:"history"`
}

// NewContext creates a context for the given session with an empty metadata bag.
func NewContext(sessionID string) *Context {
	return &Context{SessionID: sessionID, Metadata: map[string]any{}}
}

// WithMeta sets a metadata key and returns the context for chaining.
func (c *Context) WithMeta(key string, value any) *Context {
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
	c.Metadata[key] = value
	return c
}

// WithHistory replaces the conversation history and returns the context.
func (c *Context) WithHistory(turns []Turn) *Context {
	c.History = turns
	return c
}

// MetaString returns a metadata value as a string, ok=false when absent or
// of another type.
func (c *Context) MetaString(key string) (string, bool) {
	if c.Metadata == nil {
		return "", false
	}
	v, ok := c.Metadata[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// MetaInt returns a metadata value as an int, tolerating float64 from JSON
// decoding.
func (c *Context) MetaInt(key string) (int, bool) {
	if c.Metadata == nil {
		return 0, false
	}
	switch n := c.Metadata[key].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
