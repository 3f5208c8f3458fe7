package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/observability"
)

// Orchestrator resolves a task selection against a Registry and executes it
// over one shared session.
type Orchestrator struct {
	registry *Registry
	config   *config.Config
	session  Session
	renderer Renderer
	observer observability.Observer
	metrics  *Metrics
	now      func() time.Time

	record  *ExecutionRecord
	results []TaskResult
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithObserver sets the observer for run and task events.
func WithObserver(o observability.Observer) OrchestratorOption {
	return func(orc *Orchestrator) { orc.observer = o }
}

// WithMetrics records task outcomes into m.
func WithMetrics(m *Metrics) OrchestratorOption {
	return func(orc *Orchestrator) { orc.metrics = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(orc *Orchestrator) { orc.now = now }
}

// NewOrchestrator creates an orchestrator for cfg.
func NewOrchestrator(registry *Registry, cfg *config.Config, session Session, renderer Renderer, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		config:   cfg,
		session:  session,
		renderer: renderer,
		observer: observability.Discard(),
		now:      time.Now,
		record:   NewExecutionRecord(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate rejects selected task names that are not registered.
func (o *Orchestrator) Validate() error {
	unknown := lo.Filter(o.config.SelectedTasks, func(name string, _ int) bool {
		return !o.registry.Has(name)
	})
	if len(unknown) > 0 {
		return &UnknownTaskError{Names: lo.Uniq(unknown)}
	}
	return nil
}

// RunList returns the top-level names a run iterates: the selection, or
// every registered task in registration order when nothing is selected.
// Disabled tasks stay in the list and are reported as skipped.
func (o *Orchestrator) RunList() []string {
	if len(o.config.SelectedTasks) > 0 {
		return append([]string(nil), o.config.SelectedTasks...)
	}
	return o.registry.Names()
}

// Setup resolves the whole dependency graph, connects, runs the selection
// and disconnects. Unknown names and cycles are rejected before the host is
// contacted.
func (o *Orchestrator) Setup(ctx context.Context) error {
	if _, err := o.Plan(); err != nil {
		return err
	}
	if err := o.session.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if err := o.session.Disconnect(); err != nil {
			o.observer.Printf("failed to close session: %v", err)
		}
	}()
	return o.RunSelected(ctx)
}

// RunSelected executes the run list in order, resolving dependencies first.
// Graph errors are reported before any task runs. It stops at the first
// failure. Each task runs at most once per call.
func (o *Orchestrator) RunSelected(ctx context.Context) error {
	if _, err := o.Plan(); err != nil {
		return err
	}

	o.record = NewExecutionRecord()
	o.results = nil

	list := o.RunList()
	start := o.now()
	o.observer.Event(observability.Event{
		Type:     observability.EventRunStarted,
		Resource: o.config.Host,
		Message:  fmt.Sprintf("running %d task(s)", len(list)),
	})

	w := o.newWalker(true)
	for i, name := range list {
		if err := w.visit(ctx, name); err != nil {
			o.finishRun(false, start, err)
			return err
		}
		o.observer.Progress("setup", i+1, len(list))
	}

	o.finishRun(true, start, nil)
	return nil
}

// Plan resolves the run list without executing anything and returns the
// execution order.
func (o *Orchestrator) Plan() ([]string, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	w := o.newWalker(false)
	for _, name := range o.RunList() {
		if err := w.visit(context.Background(), name); err != nil {
			return nil, err
		}
	}
	return w.record.Completed(), nil
}

// Completed returns the names that succeeded in the last run, in order.
func (o *Orchestrator) Completed() []string {
	return o.record.Completed()
}

// Results returns the per-task outcomes of the last run.
func (o *Orchestrator) Results() []TaskResult {
	return append([]TaskResult(nil), o.results...)
}

func (o *Orchestrator) finishRun(success bool, start time.Time, err error) {
	end := o.now()
	if o.metrics != nil {
		o.metrics.RecordRun(success, end)
	}
	if success {
		o.observer.Event(observability.Event{
			Type:     observability.EventRunCompleted,
			Resource: o.config.Host,
			Message:  fmt.Sprintf("completed in %v", end.Sub(start).Round(time.Millisecond)),
		})
		return
	}
	o.observer.Event(observability.Event{
		Type:     observability.EventRunFailed,
		Resource: o.config.Host,
		Message:  err.Error(),
	})
}

// walker performs the depth-first resolution shared by RunSelected and Plan.
type walker struct {
	o          *Orchestrator
	execute    bool
	record     *ExecutionRecord
	inProgress map[string]bool
	stack      []string
}

func (o *Orchestrator) newWalker(execute bool) *walker {
	record := NewExecutionRecord()
	if execute {
		record = o.record
	}
	return &walker{
		o:          o,
		execute:    execute,
		record:     record,
		inProgress: make(map[string]bool),
	}
}

func (w *walker) visit(ctx context.Context, name string) error {
	desc, ok := w.o.registry.Lookup(name)
	if !ok {
		return &UnknownTaskError{Names: []string{name}}
	}

	if !desc.Enabled(w.o.config) {
		if w.execute {
			w.o.skip(name)
		}
		return nil
	}

	if w.record.Has(name) {
		if w.execute {
			w.o.observer.Event(observability.Event{
				Type:    observability.EventTaskCached,
				Task:    name,
				Message: "already completed in this run",
			})
		}
		return nil
	}

	if w.inProgress[name] {
		return &CycleError{Path: append(append([]string(nil), w.stack...), name)}
	}
	w.inProgress[name] = true
	w.stack = append(w.stack, name)
	defer func() {
		delete(w.inProgress, name)
		w.stack = w.stack[:len(w.stack)-1]
	}()

	for _, dep := range desc.DependsOn {
		if depDesc, ok := w.o.registry.Lookup(dep); ok && !depDesc.Enabled(w.o.config) {
			continue
		}
		if err := w.visit(ctx, dep); err != nil {
			return &DependencyError{Task: name, Dependency: dep, Err: err}
		}
	}

	if w.execute {
		if err := w.o.runTask(ctx, name); err != nil {
			return err
		}
	}
	w.record.Add(name)
	return nil
}

func (o *Orchestrator) skip(name string) {
	observability.LogTaskSkipped(o.observer, name, "disabled by configuration")
	o.results = append(o.results, TaskResult{Name: name, Status: StatusSkipped})
	if o.metrics != nil {
		o.metrics.RecordTask(name, resultSkipped, 0)
	}
}

func (o *Orchestrator) runTask(ctx context.Context, name string) error {
	taskObserver := o.observer.WithFields(map[string]string{"task": name})
	task, err := o.registry.New(name, Deps{
		Config:   o.config,
		Remote:   o.session,
		Renderer: o.renderer,
		Observer: taskObserver,
	})
	if err != nil {
		return err
	}

	observability.LogTaskStart(o.observer, name, task.Description())
	start := o.now()
	err = Execute(ctx, task)
	duration := o.now().Sub(start)

	result := TaskResult{Name: name, Status: StatusCompleted, Duration: duration}
	metricResult := resultSuccess
	if err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		metricResult = resultFailure
		observability.LogTaskFailed(o.observer, name, err)
	} else {
		observability.LogTaskComplete(o.observer, name, duration)
	}
	o.results = append(o.results, result)
	if o.metrics != nil {
		o.metrics.RecordTask(name, metricResult, duration)
	}
	return err
}
