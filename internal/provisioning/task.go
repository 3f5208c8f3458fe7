package provisioning

import (
	"context"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/observability"
)

// Task is a unit of provisioning work.
type Task interface {
	// Name returns the unique registry name.
	Name() string

	// Description returns a human-readable summary.
	Description() string

	// DependsOn returns the names of tasks that must succeed first.
	DependsOn() []string

	// PreRun prepares or checks preconditions.
	PreRun(ctx context.Context) error

	// Run performs the work.
	Run(ctx context.Context) error

	// PostRun verifies or cleans up.
	PostRun(ctx context.Context) error
}

// Deps are the collaborators injected into every task at construction.
type Deps struct {
	Config   *config.Config
	Remote   Remote
	Renderer Renderer
	Observer observability.Observer
}

// Execute runs the task lifecycle. A failing phase stops the lifecycle and
// the remaining phases are skipped.
func Execute(ctx context.Context, task Task) error {
	phases := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"pre-run", task.PreRun},
		{"run", task.Run},
		{"post-run", task.PostRun},
	}

	for _, phase := range phases {
		if err := phase.fn(ctx); err != nil {
			return &TaskError{Task: task.Name(), Phase: phase.name, Err: err}
		}
	}
	return nil
}
