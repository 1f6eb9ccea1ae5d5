package core

// Strategy names for the four interaction approaches. The set is closed; the
// strategy engine selects among exactly these.
const (
	StrategyClarification  = "clarification"
	StrategyDepthFocused   = "depth_focused"
	StrategyBreadthFocused = "breadth_focused"
	StrategyChallenge      = "challenge"
)

// StrategyNames lists the closed set of approaches in their canonical order.
var StrategyNames = []string{
	StrategyClarification,
	StrategyDepthFocused,
	StrategyBreadthFocused,
	StrategyChallenge,
}

// Strategy is one named interaction approach with its evolving selection
// weight and the performance observed the last time it was used.
type Strategy struct {
	ID              string   `json:"id"`
	Weight          float64  `json:"weight"`
	LastPerformance *float64 `json:"last_performance,omitempty"`
}

// StrategyRecord is one history entry: which strategy was active in which
// round and how it performed. History entries are appended, never
// overwritten.
type StrategyRecord struct {
	Strategy    string  `json:"strategy"`
	Round       int     `json:"round"`
	Performance float64 `json:"performance"`
}

// StrategyContext is the strategy-related slice of a session's aggregate
// state. It evolves once per round and is rebuilt from the event stream on
// replay like everything else; it is never stored independently of the log.
type StrategyContext struct {
	Current   string               `json:"current_strategy"`
	History   []StrategyRecord     `json:"history"`
	Available map[string]*Strategy `json:"available"`
}

// NewStrategyContext initializes the context with all approaches available at
// equal weight and clarification as the opening strategy.
func NewStrategyContext() *StrategyContext {
	available := make(map[string]*Strategy, len(StrategyNames))
	equal := 1.0 / float64(len(StrategyNames))
	for _, id := range StrategyNames {
		available[id] = &Strategy{ID: id, Weight: equal}
	}
	return &StrategyContext{Current: StrategyClarification, Available: available}
}

// Record appends a history entry and stamps the strategy's last performance.
func (sc *StrategyContext) Record(strategy string, round int, performance float64) {
	sc.History = append(sc.History, StrategyRecord{Strategy: strategy, Round: round, Performance: performance})
	if s, ok := sc.Available[strategy]; ok {
		p := performance
		s.LastPerformance = &p
	}
}

// Clone returns a deep copy safe for independent mutation.
func (sc *StrategyContext) Clone() *StrategyContext {
	clone := &StrategyContext{
		Current:   sc.Current,
		History:   make([]StrategyRecord, len(sc.History)),
		Available: make(map[string]*Strategy, len(sc.Available)),
	}
	copy(clone.History, sc.History)
	for id, s := range sc.Available {
		cp := *s
		if s.LastPerformance != nil {
			lp := *s.LastPerformance
			cp.LastPerformance = &lp
		}
		clone.Available[id] = &cp
	}
	return clone
}
