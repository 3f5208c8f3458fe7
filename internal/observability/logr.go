package observability

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-logr/logr"
)

// LogrObserver implements Observer on top of a logr.Logger.
// Failure events are logged through Error, everything else through Info.
type LogrObserver struct {
	log     logr.Logger
	verbose bool
}

// NewLogrObserver wraps log. Remote commands are logged at V(1) unless verbose.
func NewLogrObserver(log logr.Logger, verbose bool) *LogrObserver {
	return &LogrObserver{log: log, verbose: verbose}
}

// Printf implements Logger.
func (o *LogrObserver) Printf(format string, v ...interface{}) {
	o.log.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *LogrObserver) Event(event Event) {
	kv := []interface{}{"event", string(event.Type)}
	if event.Task != "" {
		kv = append(kv, "task", event.Task)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kv = append(kv, k, event.Fields[k])
	}

	switch {
	case event.Type.IsFailure():
		o.log.Error(errors.New(event.Message), string(event.Type), kv...)
	case event.Type == EventCommandRunning && !o.verbose:
		o.log.V(1).Info(event.Message, kv...)
	default:
		o.log.Info(event.Message, kv...)
	}
}

// Progress implements Observer.
func (o *LogrObserver) Progress(phase string, current, total int) {
	o.log.Info("progress", "phase", phase, "current", current, "total", total)
}

// WithFields implements Observer.
func (o *LogrObserver) WithFields(fields map[string]string) Observer {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return &LogrObserver{log: o.log.WithValues(kv...), verbose: o.verbose}
}
