// Package strategy implements the adaptive interaction engine: a
// deterministic threshold selector that picks the next approach from the
// latest evaluation scores, and a weight-evolution function that
// redistributes per-approach weights from accumulated performance signals.
package strategy

import (
	"fmt"

	"github.com/hupe1980/interviewmesh/config"
	"github.com/hupe1980/interviewmesh/core"
)

// Scores are the evaluation signals the selector decides on, each on a 0-100
// scale.
type Scores struct {
	Completeness float64 `json:"completeness"`
	Depth        float64 `json:"depth"`
	Overall      float64 `json:"overall"`
}

// Selection is the chosen approach plus a human-readable reason citing the
// triggering score.
type Selection struct {
	Strategy string `json:"strategy"`
	Reason   string `json:"reason"`
}

// Selector chooses the next interaction approach. Thresholds come from
// configuration; the selector guarantees only the ordering of its rules.
type Selector struct {
	thresholds config.Thresholds
}

// NewSelector creates a selector with the given thresholds.
func NewSelector(thresholds config.Thresholds) *Selector {
	return &Selector{thresholds: thresholds}
}

// Select applies the ordered rules:
//  1. completeness below its threshold wins regardless of the other scores,
//  2. then insufficient depth,
//  3. then a high overall score escalates to challenge,
//  4. otherwise broaden.
func (s *Selector) Select(scores Scores) Selection {
	t := s.thresholds
	switch {
	case scores.Completeness < t.Completeness:
		return Selection{
			Strategy: core.StrategyClarification,
			Reason:   fmt.Sprintf("completeness %.1f is below threshold %.1f; the answer needs clarifying before going deeper", scores.Completeness, t.Completeness),
		}
	case scores.Depth < t.Depth:
		return Selection{
			Strategy: core.StrategyDepthFocused,
			Reason:   fmt.Sprintf("depth %.1f is below threshold %.1f; probe the same topic further", scores.Depth, t.Depth),
		}
	case scores.Overall > t.ChallengeHigh:
		return Selection{
			Strategy: core.StrategyChallenge,
			Reason:   fmt.Sprintf("overall %.1f exceeds %.1f; raise the difficulty", scores.Overall, t.ChallengeHigh),
		}
	default:
		return Selection{
			Strategy: core.StrategyBreadthFocused,
			Reason:   fmt.Sprintf("overall %.1f is solid but not exceptional; broaden to a new topic", scores.Overall),
		}
	}
}

// EvolveWeights redistributes the per-strategy weights from the history
// accumulated in sc. For every strategy with performance samples the
// contribution is its average improvement multiplied by its usage count,
// clamped at zero so a strategy that made things worse cannot push another
// weight above 1; weights are the contributions normalized over their total
// and always form a distribution. When no strategy has data (or every
// contribution clamps to zero) every strategy falls back to the equal
// weight 1/N.
//
// The function mutates sc.Available in place and touches nothing else:
// history entries are appended elsewhere and never overwritten here.
func EvolveWeights(sc *core.StrategyContext) {
	type sample struct {
		sum   float64
		count int
	}
	samples := make(map[string]*sample)
	for _, rec := range sc.History {
		s, ok := samples[rec.Strategy]
		if !ok {
			s = &sample{}
			samples[rec.Strategy] = s
		}
		s.sum += rec.Performance
		s.count++
	}

	var total float64
	contributions := make(map[string]float64, len(samples))
	for id, s := range samples {
		avg := s.sum / float64(s.count)
		contribution := avg * float64(s.count)
		if contribution < 0 {
			contribution = 0
		}
		contributions[id] = contribution
		total += contribution
	}

	if total <= 0 {
		equal := 1.0 / float64(len(sc.Available))
		for _, s := range sc.Available {
			s.Weight = equal
		}
		return
	}

	for id, s := range sc.Available {
		s.Weight = contributions[id] / total
	}
}
