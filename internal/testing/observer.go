package testing

import (
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/imamik/hostforge/internal/observability"
)

// RecordingObserver captures messages and events for assertions.
// Observers derived with WithFields share the parent's recording.
type RecordingObserver struct {
	mu       *sync.Mutex
	messages *[]string
	events   *[]observability.Event
	fields   map[string]string
}

// NewRecordingObserver returns an empty recording observer.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{
		mu:       &sync.Mutex{},
		messages: &[]string{},
		events:   &[]observability.Event{},
	}
}

// Printf implements observability.Observer.
func (r *RecordingObserver) Printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.messages = append(*r.messages, fmt.Sprintf(format, args...))
}

// Event implements observability.Observer.
func (r *RecordingObserver) Event(event observability.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.fields) > 0 {
		fields := make(map[string]string, len(r.fields)+len(event.Fields))
		for k, v := range r.fields {
			fields[k] = v
		}
		for k, v := range event.Fields {
			fields[k] = v
		}
		event.Fields = fields
	}
	*r.events = append(*r.events, event)
}

// Progress implements observability.Observer.
func (r *RecordingObserver) Progress(phase string, current, total int) {
	r.Printf("[%s] %d/%d", phase, current, total)
}

// WithFields implements observability.Observer.
func (r *RecordingObserver) WithFields(fields map[string]string) observability.Observer {
	merged := make(map[string]string, len(r.fields)+len(fields))
	for k, v := range r.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &RecordingObserver{mu: r.mu, messages: r.messages, events: r.events, fields: merged}
}

// Messages returns every Printf message in order.
func (r *RecordingObserver) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), *r.messages...)
}

// Events returns every event in order.
func (r *RecordingObserver) Events() []observability.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]observability.Event(nil), *r.events...)
}

// EventsOfType returns the events with the given type.
func (r *RecordingObserver) EventsOfType(t observability.EventType) []observability.Event {
	return lo.Filter(r.Events(), func(e observability.Event, _ int) bool {
		return e.Type == t
	})
}
