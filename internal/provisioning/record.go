package provisioning

import "time"

// ExecutionRecord tracks the tasks that completed successfully during one run.
type ExecutionRecord struct {
	done  map[string]bool
	order []string
}

// NewExecutionRecord returns an empty record.
func NewExecutionRecord() *ExecutionRecord {
	return &ExecutionRecord{done: make(map[string]bool)}
}

// Add marks name as completed.
func (r *ExecutionRecord) Add(name string) {
	if r.done[name] {
		return
	}
	r.done[name] = true
	r.order = append(r.order, name)
}

// Has reports whether name completed.
func (r *ExecutionRecord) Has(name string) bool {
	return r.done[name]
}

// Completed returns the completed names in completion order.
func (r *ExecutionRecord) Completed() []string {
	return append([]string(nil), r.order...)
}

// TaskStatus is the outcome of one task in a run.
type TaskStatus string

// Task statuses.
const (
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
	StatusSkipped   TaskStatus = "skipped"
)

// TaskResult is the per-task entry of a run report.
type TaskResult struct {
	Name     string        `yaml:"name"`
	Status   TaskStatus    `yaml:"status"`
	Duration time.Duration `yaml:"duration"`
	Error    string        `yaml:"error,omitempty"`
}
