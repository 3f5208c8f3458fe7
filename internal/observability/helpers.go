package observability

import (
	"fmt"
	"time"
)

// LogTaskStart logs a task start event.
func LogTaskStart(observer Observer, task, description string) {
	observer.Event(Event{
		Type:    EventTaskStarted,
		Task:    task,
		Message: description,
	})
}

// LogTaskComplete logs a task completion event.
func LogTaskComplete(observer Observer, task string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventTaskCompleted,
		Task:    task,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogTaskFailed logs a task failure event.
func LogTaskFailed(observer Observer, task string, err error) {
	observer.Event(Event{
		Type:    EventTaskFailed,
		Task:    task,
		Message: fmt.Sprintf("failed: %v", err),
	})
}

// LogTaskSkipped logs a task whose feature toggle is off.
func LogTaskSkipped(observer Observer, task, reason string) {
	observer.Event(Event{
		Type:    EventTaskSkipped,
		Task:    task,
		Message: reason,
	})
}

// LogCommand logs a remote command about to run.
func LogCommand(observer Observer, host, command string) {
	observer.Event(Event{
		Type:     EventCommandRunning,
		Resource: host,
		Message:  command,
	})
}

// LogCommandFailed logs a remote command that exited non-zero.
func LogCommandFailed(observer Observer, host, command string, exitCode int, stderr string) {
	observer.Event(Event{
		Type:     EventCommandFailed,
		Resource: host,
		Message:  command,
		Fields: map[string]string{
			"exit_code": fmt.Sprintf("%d", exitCode),
			"stderr":    stderr,
		},
	})
}

// LogTransfer logs a completed file transfer.
func LogTransfer(observer Observer, direction, local, remote string) {
	observer.Event(Event{
		Type:     EventTransferCompleted,
		Resource: remote,
		Message:  fmt.Sprintf("%s %s", direction, local),
		Fields: map[string]string{
			"direction": direction,
		},
	})
}

// LogTransferFailed logs a failed transfer or remote file probe.
func LogTransferFailed(observer Observer, operation, path string, err error) {
	observer.Event(Event{
		Type:     EventTransferFailed,
		Resource: path,
		Message:  fmt.Sprintf("%s failed: %v", operation, err),
		Fields: map[string]string{
			"operation": operation,
		},
	})
}
