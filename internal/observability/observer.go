// Package observability provides the reporting collaborator shared by the
// remote session, the template renderer and the task orchestrator.
//
// Nothing in hostforge writes to a global logger. Components receive an
// Observer at construction and emit structured events through it; the CLI
// decides whether those events end up on a styled console or in a logr sink.
package observability

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Logger is the minimal printf-style logging surface.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Observer defines the interface for structured observability during a run.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress through a run
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Task      string            // Task name if applicable
	Message   string            // Human-readable message
	Resource  string            // Host, remote path or template name
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventRunStarted indicates a setup run has started.
	EventRunStarted EventType = "run.started"
	// EventRunCompleted indicates every task of a run succeeded.
	EventRunCompleted EventType = "run.completed"
	// EventRunFailed indicates a run stopped on its first failure.
	EventRunFailed EventType = "run.failed"

	// EventTaskStarted indicates a task began its lifecycle.
	EventTaskStarted EventType = "task.started"
	// EventTaskCompleted indicates a task finished all lifecycle phases.
	EventTaskCompleted EventType = "task.completed"
	// EventTaskFailed indicates a task lifecycle phase failed.
	EventTaskFailed EventType = "task.failed"
	// EventTaskSkipped indicates a task was skipped because its feature is disabled.
	EventTaskSkipped EventType = "task.skipped"
	// EventTaskCached indicates a task already ran during this run.
	EventTaskCached EventType = "task.cached"

	// EventCommandRunning indicates a remote command is being executed.
	EventCommandRunning EventType = "command.running"
	// EventCommandFailed indicates a remote command exited non-zero.
	EventCommandFailed EventType = "command.failed"

	// EventTransferCompleted indicates a file transfer succeeded.
	EventTransferCompleted EventType = "transfer.completed"
	// EventTransferFailed indicates a file transfer or probe failed.
	EventTransferFailed EventType = "transfer.failed"

	// EventConnectionEstablished indicates the remote session connected.
	EventConnectionEstablished EventType = "connection.established"
	// EventConnectionFailed indicates the remote session could not connect.
	EventConnectionFailed EventType = "connection.failed"
	// EventConnectionClosed indicates the remote session was closed.
	EventConnectionClosed EventType = "connection.closed"

	// EventTemplateRendered indicates a template was materialized.
	EventTemplateRendered EventType = "template.rendered"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// IsFailure reports whether the event type describes a failure.
func (t EventType) IsFailure() bool {
	return strings.HasSuffix(string(t), ".failed")
}

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")

	successStyle = lipgloss.NewStyle().Foreground(colorGreen)
	failedStyle  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	skippedStyle = lipgloss.NewStyle().Foreground(colorYellow)
	taskStyle    = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// ConsoleObserver implements Observer for humans reading a terminal.
type ConsoleObserver struct {
	logger        *log.Logger
	color         bool
	verbose       bool
	contextFields map[string]string
}

// ConsoleOption configures a ConsoleObserver.
type ConsoleOption func(*ConsoleObserver)

// WithVerbose makes the observer print every remote command.
func WithVerbose(verbose bool) ConsoleOption {
	return func(o *ConsoleObserver) { o.verbose = verbose }
}

// WithColor forces styling on or off.
func WithColor(color bool) ConsoleOption {
	return func(o *ConsoleObserver) { o.color = color }
}

// NewConsoleObserver creates a console observer writing to out.
// Styling is enabled only when out is a terminal.
func NewConsoleObserver(out io.Writer, opts ...ConsoleOption) *ConsoleObserver {
	o := &ConsoleObserver{
		logger:        log.New(out, "", log.LstdFlags),
		color:         isTerminal(out),
		contextFields: make(map[string]string),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Printf implements Logger.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	o.logger.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Type == EventCommandRunning && !o.verbose {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Fields = mergeFields(o.contextFields, event.Fields)
	o.logger.Print(o.formatEvent(event))
}

// Progress implements Observer.
func (o *ConsoleObserver) Progress(phase string, current, total int) {
	if total == 0 {
		o.logger.Printf("[%s] progress: %d/%d", phase, current, total)
		return
	}
	o.logger.Printf("[%s] progress: %d/%d (%d%%)", phase, current, total, (current*100)/total)
}

// WithFields implements Observer.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	return &ConsoleObserver{
		logger:        o.logger,
		color:         o.color,
		verbose:       o.verbose,
		contextFields: mergeFields(o.contextFields, fields),
	}
}

func (o *ConsoleObserver) style(s lipgloss.Style, text string) string {
	if !o.color {
		return text
	}
	return s.Render(text)
}

func (o *ConsoleObserver) formatEvent(event Event) string {
	var parts []string

	marker := string(event.Type)
	switch {
	case event.Type.IsFailure():
		marker = o.style(failedStyle, marker)
	case event.Type == EventTaskCompleted || event.Type == EventRunCompleted:
		marker = o.style(successStyle, marker)
	case event.Type == EventTaskSkipped || event.Type == EventTaskCached:
		marker = o.style(skippedStyle, marker)
	default:
		marker = o.style(dimStyle, marker)
	}
	parts = append(parts, marker)

	if event.Task != "" {
		parts = append(parts, o.style(taskStyle, fmt.Sprintf("[%s]", event.Task)))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}
	parts = append(parts, event.Message)

	if len(event.Fields) > 0 {
		parts = append(parts, o.style(dimStyle, fmt.Sprintf("(%s)", formatFields(event.Fields))))
	}

	return strings.Join(parts, " ")
}

// formatFields renders fields sorted by key so output is stable.
func formatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, fields[k]))
	}
	return strings.Join(pairs, ", ")
}

// mergeFields returns base overlaid with extra. Neither input is modified.
func mergeFields(base, extra map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// Discard returns an Observer that drops everything.
func Discard() Observer {
	return discard{}
}

type discard struct{}

func (discard) Printf(string, ...interface{}) {}

func (discard) Event(Event) {}

func (discard) Progress(string, int, int) {}

func (d discard) WithFields(map[string]string) Observer { return d }
