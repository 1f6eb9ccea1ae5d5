// Package dispatch holds the agent registry and router. Agents are keyed by
// case-normalized name; a single dispatch targets one agent and a broadcast
// fans a context out to all of them concurrently with per-agent failure
// isolation.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/logging"
	"golang.org/x/sync/semaphore"
)

// Options configure a Dispatcher.
type Options struct {
	// MaxConcurrentBroadcast bounds how many agents a broadcast runs at
	// once. Zero or negative means unbounded (one permit per agent).
	MaxConcurrentBroadcast int
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Result is one agent's outcome within a broadcast. Exactly one of Output
// and Err is set; a failed agent never discards the other agents' results.
type Result struct {
	AgentName string
	Output    *core.InferenceOutput
	Err       error
}

// Dispatcher is the named registry and router for agents. It is safe for
// concurrent use.
//
// Registration replaces an already-registered agent of the same
// (case-normalized) name; the replacement is logged at warn level so a
// silently shadowed worker is at least visible in the logs.
type Dispatcher struct {
	mu           sync.RWMutex
	agents       map[string]core.Agent
	order        []string
	maxBroadcast int
	logger       logging.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(optFns ...func(o *Options)) *Dispatcher {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Dispatcher{
		agents:       make(map[string]core.Agent),
		maxBroadcast: opts.MaxConcurrentBroadcast,
		logger:       opts.Logger,
	}
}

// normalize lower-cases an agent name so lookups are case-insensitive.
func normalize(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// Register adds an agent under its case-normalized name.
func (d *Dispatcher) Register(agent core.Agent) {
	key := normalize(agent.Name())
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.agents[key]; exists {
		d.logger.Warn("agent replaced", "agent", agent.Name())
	} else {
		d.order = append(d.order, key)
	}
	d.agents[key] = agent
}

// Names returns the registered agent names in registration order.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.order))
	for _, key := range d.order {
		names = append(names, d.agents[key].Name())
	}
	return names
}

func (d *Dispatcher) lookup(name string) (core.Agent, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	agent, ok := d.agents[normalize(name)]
	return agent, ok
}

// Dispatch routes one context to the named agent. An unregistered name is a
// contract error (core.NotFoundError) and performs no side effect.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, c *core.Context) (*core.InferenceOutput, error) {
	agent, ok := d.lookup(name)
	if !ok {
		return nil, &core.NotFoundError{Name: name}
	}
	start := time.Now()
	out, err := safeProcess(ctx, agent, c)
	d.logger.Debug("dispatch completed", "agent", agent.Name(), "duration", time.Since(start), "error", err)
	return out, err
}

// Broadcast invokes every registered agent concurrently with the same
// context and waits for all of them to finish or fail independently. A slow
// or failing agent neither starves nor fails the others; its Result carries
// the error while the rest carry their outputs. Results are returned in
// registration order.
func (d *Dispatcher) Broadcast(ctx context.Context, c *core.Context) []Result {
	d.mu.RLock()
	targets := make([]core.Agent, 0, len(d.order))
	for _, key := range d.order {
		targets = append(targets, d.agents[key])
	}
	d.mu.RUnlock()

	if len(targets) == 0 {
		return nil
	}

	permits := int64(d.maxBroadcast)
	if permits <= 0 {
		permits = int64(len(targets))
	}
	sem := semaphore.NewWeighted(permits)

	results := make([]Result, len(targets))
	var wg sync.WaitGroup
	for i, agent := range targets {
		wg.Add(1)
		go func(i int, agent core.Agent) {
			defer wg.Done()
			results[i].AgentName = agent.Name()
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i].Err = err
				return
			}
			defer sem.Release(1)
			results[i].Output, results[i].Err = safeProcess(ctx, agent, c)
		}(i, agent)
	}
	wg.Wait()
	return results
}

// safeProcess calls an agent's Process converting panics into errors so one
// worker's fault stays contained within its own result.
func safeProcess(ctx context.Context, agent core.Agent, c *core.Context) (out *core.InferenceOutput, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = fmt.Errorf("agent %s panicked: %v", agent.Name(), rec)
		}
	}()
	return agent.Process(ctx, c)
}
