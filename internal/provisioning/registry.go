package provisioning

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/imamik/hostforge/internal/config"
)

// Descriptor is the static metadata of a registered task.
type Descriptor struct {
	Name        string
	Description string
	DependsOn   []string

	// EnabledWhen gates the task on a feature toggle. A disabled task counts
	// as trivially successful and is filtered out of dependency lists.
	// Nil means always enabled.
	EnabledWhen func(*config.Config) bool
}

// Enabled reports whether the task is enabled for cfg.
func (d Descriptor) Enabled(cfg *config.Config) bool {
	return d.EnabledWhen == nil || d.EnabledWhen(cfg)
}

// Factory constructs a task bound to deps.
type Factory func(deps Deps) Task

type registration struct {
	desc    Descriptor
	factory Factory
}

// Registry holds every available task kind keyed by name, in registration order.
type Registry struct {
	tasks *orderedmap.OrderedMap[string, registration]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: orderedmap.New[string, registration]()}
}

// Register adds one task kind. Registering a name twice returns ErrDuplicateTask.
func (r *Registry) Register(desc Descriptor, factory Factory) error {
	if desc.Name == "" {
		return fmt.Errorf("task name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("task %s: factory cannot be nil", desc.Name)
	}
	if _, exists := r.tasks.Get(desc.Name); exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTask, desc.Name)
	}

	desc.DependsOn = append([]string(nil), desc.DependsOn...)
	r.tasks.Set(desc.Name, registration{desc: desc, factory: factory})
	return nil
}

// MustRegister is like Register but panics on error. It is meant for static
// task lists assembled at process start.
func (r *Registry) MustRegister(desc Descriptor, factory Factory) {
	if err := r.Register(desc, factory); err != nil {
		panic(err)
	}
}

// Names returns every registered name in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.tasks.Len())
	for pair := r.tasks.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Len returns the number of registered tasks.
func (r *Registry) Len() int {
	return r.tasks.Len()
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.tasks.Get(name)
	return ok
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	reg, ok := r.tasks.Get(name)
	if !ok {
		return Descriptor{}, false
	}
	desc := reg.desc
	desc.DependsOn = append([]string(nil), reg.desc.DependsOn...)
	return desc, true
}

// DependenciesOf returns a copy of the declared dependencies of name.
// Unknown names yield an empty list; rejecting them is the resolver's job.
func (r *Registry) DependenciesOf(name string) []string {
	reg, ok := r.tasks.Get(name)
	if !ok {
		return []string{}
	}
	return append([]string{}, reg.desc.DependsOn...)
}

// Descriptors returns every descriptor in registration order.
func (r *Registry) Descriptors() []Descriptor {
	descs := make([]Descriptor, 0, r.tasks.Len())
	for pair := r.tasks.Oldest(); pair != nil; pair = pair.Next() {
		desc, _ := r.Lookup(pair.Key)
		descs = append(descs, desc)
	}
	return descs
}

// New constructs the task registered under name.
func (r *Registry) New(name string, deps Deps) (Task, error) {
	reg, ok := r.tasks.Get(name)
	if !ok {
		return nil, &UnknownTaskError{Names: []string{name}}
	}
	return reg.factory(deps), nil
}
