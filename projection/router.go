package projection

import (
	"fmt"
	"sync"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/logging"
)

// RouterOptions configure a Router.
type RouterOptions struct {
	// Logger receives per-projection failure reports. Defaults to NoOp.
	Logger logging.Logger
}

// Router fans a newly appended event out to every registered projection in
// registration order. Each projection's failure (error return or panic) is
// captured and logged independently so one failing read model never prevents
// the others from updating, and never un-commits the already durable event.
type Router struct {
	mu          sync.RWMutex
	projections []core.Projection
	logger      logging.Logger
}

// NewRouter creates an empty router.
func NewRouter(optFns ...func(o *RouterOptions)) *Router {
	opts := RouterOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Router{logger: opts.Logger}
}

// Register appends a projection to the dispatch order.
func (r *Router) Register(p core.Projection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projections = append(r.projections, p)
}

// Dispatch applies the event to every registered projection, isolating
// failures per projection. The returned slice holds one ProjectionError per
// failed read model; an empty slice means every projection applied cleanly.
func (r *Router) Dispatch(event core.Event) []error {
	r.mu.RLock()
	targets := make([]core.Projection, len(r.projections))
	copy(targets, r.projections)
	r.mu.RUnlock()

	var failures []error
	for _, p := range targets {
		if err := r.apply(p, event); err != nil {
			r.logger.Error("projection failed", "projection", p.Name(), "event_type", event.EventType, "sequence_number", event.SequenceNumber, "error", err)
			failures = append(failures, err)
			continue
		}
		r.logger.Debug("projection applied", "projection", p.Name(), "event_type", event.EventType, "sequence_number", event.SequenceNumber)
	}
	return failures
}

// apply invokes one projection's handler converting panics into errors so a
// misbehaving read model cannot take down the append path.
func (r *Router) apply(p core.Projection, event core.Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &core.ProjectionError{Projection: p.Name(), EventType: event.EventType, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()
	if herr := p.Handle(event); herr != nil {
		return &core.ProjectionError{Projection: p.Name(), EventType: event.EventType, Err: herr}
	}
	return nil
}
