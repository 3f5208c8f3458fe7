package provisioning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/hostforge/internal/remote"
)

var (
	// ErrDuplicateTask is returned when a task name is registered twice.
	ErrDuplicateTask = errors.New("task already registered")
	// ErrCycleFound is wrapped by every CycleError.
	ErrCycleFound = errors.New("dependency cycle detected")
)

// UnknownTaskError reports requested or depended-on task names that are not registered.
type UnknownTaskError struct {
	Names []string
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("unknown task(s): %s", strings.Join(e.Names, ", "))
}

// CycleError reports a dependency cycle. Path starts and ends with the same task.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCycleFound, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycleFound }

// CommandError reports a remote command that exited non-zero.
type CommandError struct {
	Command string
	Result  remote.Result
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q exited with status %d", e.Command, e.Result.ExitCode)
	if out := strings.TrimSpace(e.Result.Output()); out != "" {
		msg += ": " + out
	}
	return msg
}

// TaskError reports the lifecycle phase a task failed in.
type TaskError struct {
	Task  string
	Phase string
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s failed in %s: %v", e.Task, e.Phase, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// DependencyError reports that a task did not run because a dependency failed.
type DependencyError struct {
	Task       string
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("task %s: dependency %s: %v", e.Task, e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }
