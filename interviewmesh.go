// Package interviewmesh provides a high-level façade over the event-sourced
// interview core: the event log with its projections, the agent dispatcher
// with all interview roles registered, and the orchestrator that drives a
// session round by round. Most applications interact with this package by:
//  1. Creating an InterviewMesh via New() with a provider (or the built-in
//     mock for tests and demos)
//  2. Starting a session and stepping it with AskQuestion / SubmitAnswer
//  3. Reading current state from the projections
//
// There is no hidden global state: New() is the composition root and every
// service it builds is an explicit object handed by reference to the parts
// that need it, which keeps per-test isolation trivial.
package interviewmesh

import (
	"time"

	"github.com/hupe1980/interviewmesh/agents"
	"github.com/hupe1980/interviewmesh/config"
	"github.com/hupe1980/interviewmesh/core"
	"github.com/hupe1980/interviewmesh/dispatch"
	"github.com/hupe1980/interviewmesh/eventlog"
	"github.com/hupe1980/interviewmesh/intelligence"
	"github.com/hupe1980/interviewmesh/interview"
	"github.com/hupe1980/interviewmesh/logging"
	"github.com/hupe1980/interviewmesh/projection"
)

// StartParams re-exports interview.StartParams so callers of the façade
// rarely need to import the interview package directly.
type StartParams = interview.StartParams

// Options configure the InterviewMesh instance.
type Options struct {
	// Provider is the language-model collaborator. Defaults to the
	// deterministic mock provider.
	Provider intelligence.Provider

	// EventLog overrides the default in-memory log. A custom log must come
	// pre-wired with its own projection router; in that configuration the
	// façade builds no read models of its own and SessionState/QA/Performance
	// return nil.
	EventLog core.EventLog

	// Notifier receives best-effort read-model change pushes. Defaults to NoOp.
	Notifier core.Notifier

	// Config supplies strategy thresholds and tuning. Defaults to config.Default().
	Config *config.Config

	// Logger defaults to NoOp.
	Logger logging.Logger
}

// InterviewMesh aggregates the composed services of one deployment.
type InterviewMesh struct {
	orchestrator *interview.Orchestrator
	dispatcher   *dispatch.Dispatcher
	log          core.EventLog
	sessionState *projection.SessionState
	qa           *projection.QA
	performance  *projection.Performance
}

// New builds the full service graph. Any unset option falls back to an
// in-memory / no-op implementation safe for local development and testing.
func New(optFns ...func(o *Options)) *InterviewMesh {
	opts := Options{
		Provider: intelligence.NewMockProvider(),
		Notifier: core.NoOpNotifier{},
		Config:   config.Default(),
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	// Read models are only built for the default log: a projection nothing
	// dispatches to would just sit there looking live while staying empty.
	var (
		sessionState *projection.SessionState
		qa           *projection.QA
		performance  *projection.Performance
	)
	log := opts.EventLog
	if log == nil {
		sessionState = projection.NewSessionState(func(o *projection.SessionStateOptions) { o.Notifier = opts.Notifier })
		qa = projection.NewQA(func(o *projection.QAOptions) { o.Notifier = opts.Notifier })
		performance = projection.NewPerformance(func(o *projection.PerformanceOptions) { o.Notifier = opts.Notifier })

		router := projection.NewRouter(func(o *projection.RouterOptions) { o.Logger = opts.Logger })
		router.Register(sessionState)
		router.Register(qa)
		router.Register(performance)
		log = eventlog.NewInMemoryStore(func(o *eventlog.Options) {
			o.Router = router
			o.Logger = opts.Logger
		})
	}

	boundary := intelligence.NewBoundary(opts.Provider, func(o *intelligence.BoundaryOptions) {
		o.Timeout = time.Duration(opts.Config.Boundary.TimeoutSeconds) * time.Second
		o.Logger = opts.Logger
	})

	dispatcher := dispatch.NewDispatcher(func(o *dispatch.Options) {
		o.MaxConcurrentBroadcast = opts.Config.Dispatch.MaxConcurrentBroadcast
		o.Logger = opts.Logger
	})
	dispatcher.Register(agents.NewArchitect(boundary))
	dispatcher.Register(agents.NewEvaluator(boundary))
	dispatcher.Register(agents.NewExecutioner(boundary))
	dispatcher.Register(agents.NewPlanner(boundary))
	dispatcher.Register(agents.NewObserver(boundary))
	dispatcher.Register(agents.NewWatcher(boundary))
	dispatcher.Register(agents.NewAnalyst(boundary))
	dispatcher.Register(agents.NewCritic(boundary))
	dispatcher.Register(agents.NewGuardian(boundary))
	dispatcher.Register(agents.NewInterpreter(boundary))
	dispatcher.Register(agents.NewMonitor(boundary))

	orchestrator := interview.NewOrchestrator(log, dispatcher, func(o *interview.Options) {
		o.Config = opts.Config
		o.Logger = opts.Logger
	})

	return &InterviewMesh{
		orchestrator: orchestrator,
		dispatcher:   dispatcher,
		log:          log,
		sessionState: sessionState,
		qa:           qa,
		performance:  performance,
	}
}

// Orchestrator returns the session driver.
func (m *InterviewMesh) Orchestrator() *interview.Orchestrator { return m.orchestrator }

// Dispatcher returns the agent registry, e.g. for direct dispatch or broadcast.
func (m *InterviewMesh) Dispatcher() *dispatch.Dispatcher { return m.dispatcher }

// EventLog returns the underlying event log.
func (m *InterviewMesh) EventLog() core.EventLog { return m.log }

// SessionState returns the lifecycle read model, or nil when a custom
// EventLog was supplied (its projections live outside the façade).
func (m *InterviewMesh) SessionState() *projection.SessionState { return m.sessionState }

// QA returns the question/answer read model, or nil when a custom EventLog
// was supplied.
func (m *InterviewMesh) QA() *projection.QA { return m.qa }

// Performance returns the running-score read model, or nil when a custom
// EventLog was supplied.
func (m *InterviewMesh) Performance() *projection.Performance { return m.performance }
