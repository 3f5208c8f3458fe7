package observability

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsoleObserver_Event(t *testing.T) {
	var buf bytes.Buffer
	observer := NewConsoleObserver(&buf)

	observer.Event(Event{
		Type:     EventTaskCompleted,
		Task:     "firewall",
		Resource: "203.0.113.10",
		Message:  "completed in 2s",
		Fields:   map[string]string{"b": "2", "a": "1"},
	})

	out := buf.String()
	assert.Contains(t, out, "task.completed")
	assert.Contains(t, out, "[firewall]")
	assert.Contains(t, out, "resource=203.0.113.10")
	assert.Contains(t, out, "completed in 2s")
	assert.Contains(t, out, "(a=1, b=2)")
	assert.NotContains(t, out, "\x1b[", "non-terminal writer must not get ANSI styling")
}

func TestConsoleObserver_CommandsHiddenUnlessVerbose(t *testing.T) {
	var quiet, loud bytes.Buffer

	LogCommand(NewConsoleObserver(&quiet), "host", "apt-get update")
	LogCommand(NewConsoleObserver(&loud, WithVerbose(true)), "host", "apt-get update")

	assert.Empty(t, quiet.String())
	assert.Contains(t, loud.String(), "apt-get update")
}

func TestConsoleObserver_WithFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewConsoleObserver(&buf)

	child := base.WithFields(map[string]string{"host": "example.com"})
	child.Event(Event{Type: EventRunStarted, Message: "starting"})

	assert.Contains(t, buf.String(), "host=example.com")

	buf.Reset()
	base.Event(Event{Type: EventRunStarted, Message: "starting"})
	assert.NotContains(t, buf.String(), "host=example.com", "parent observer must not inherit child fields")
}

func TestConsoleObserver_EventFieldsOverrideContext(t *testing.T) {
	var buf bytes.Buffer
	observer := NewConsoleObserver(&buf).WithFields(map[string]string{"k": "context"})

	observer.Event(Event{Type: EventProgress, Message: "m", Fields: map[string]string{"k": "event"}})

	assert.Contains(t, buf.String(), "k=event")
	assert.NotContains(t, buf.String(), "k=context")
}

func TestConsoleObserver_Progress(t *testing.T) {
	var buf bytes.Buffer
	observer := NewConsoleObserver(&buf)

	observer.Progress("setup", 1, 4)
	assert.Contains(t, buf.String(), "[setup] progress: 1/4 (25%)")

	buf.Reset()
	observer.Progress("setup", 0, 0)
	assert.Contains(t, buf.String(), "[setup] progress: 0/0")
}

func TestConsoleObserver_Color(t *testing.T) {
	var buf bytes.Buffer
	observer := NewConsoleObserver(&buf, WithColor(true))

	assert.True(t, observer.color)
	assert.Equal(t, "plain", NewConsoleObserver(&buf).style(failedStyle, "plain"))
}

func TestEventType_IsFailure(t *testing.T) {
	tests := []struct {
		eventType EventType
		want      bool
	}{
		{EventTaskFailed, true},
		{EventCommandFailed, true},
		{EventTransferFailed, true},
		{EventConnectionFailed, true},
		{EventRunFailed, true},
		{EventTaskCompleted, false},
		{EventTaskSkipped, false},
		{EventProgress, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.eventType.IsFailure())
		})
	}
}

func TestHelpers(t *testing.T) {
	var buf bytes.Buffer
	observer := NewConsoleObserver(&buf)

	LogTaskStart(observer, "user", "Create the application user")
	LogTaskComplete(observer, "user", 1500*time.Millisecond)
	LogTaskFailed(observer, "python", errors.New("exit status 100"))
	LogTaskSkipped(observer, "database", "database disabled")
	LogCommandFailed(observer, "host", "false", 1, "boom")
	LogTransfer(observer, "upload", "/tmp/a", "/etc/a")
	LogTransferFailed(observer, "stat", "/etc/a", errors.New("permission denied"))

	out := buf.String()
	assert.Contains(t, out, "task.started [user] Create the application user")
	assert.Contains(t, out, "completed in 1.5s")
	assert.Contains(t, out, "failed: exit status 100")
	assert.Contains(t, out, "task.skipped [database] database disabled")
	assert.Contains(t, out, "exit_code=1")
	assert.Contains(t, out, "direction=upload")
	assert.Contains(t, out, "stat failed: permission denied")
}

func TestDiscard(t *testing.T) {
	observer := Discard()

	assert.NotPanics(t, func() {
		observer.Printf("hello %s", "world")
		observer.Event(Event{Type: EventTaskStarted})
		observer.Progress("x", 1, 2)
		assert.NotNil(t, observer.WithFields(map[string]string{"a": "b"}))
	})
}
