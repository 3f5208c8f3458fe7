package provisioning

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/observability"
	"github.com/imamik/hostforge/internal/remote"
)

// fakeSession records commands and uploads and answers with canned results.
type fakeSession struct {
	mu         sync.Mutex
	commands   []string
	privileged []bool
	uploads    map[string]string
	results    map[string]remote.Result
	existing   map[string]bool

	connectErr    error
	connected     bool
	disconnectCnt int
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		uploads:  make(map[string]string),
		results:  make(map[string]remote.Result),
		existing: make(map[string]bool),
	}
}

func (f *fakeSession) Connect(context.Context) error {
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeSession) Disconnect() error {
	f.disconnectCnt++
	f.connected = false
	return nil
}

func (f *fakeSession) Execute(_ context.Context, command string, privileged bool) remote.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, command)
	f.privileged = append(f.privileged, privileged)
	if res, ok := f.results[command]; ok {
		return res
	}
	return remote.Result{}
}

func (f *fakeSession) Upload(_ context.Context, localPath, remotePath string) error {
	f.uploads[remotePath] = localPath
	return nil
}

func (f *fakeSession) Download(context.Context, string, string) error {
	return nil
}

func (f *fakeSession) FileExists(_ context.Context, remotePath string) bool {
	return f.existing[remotePath]
}

// fakeRenderer returns predictable paths without touching the filesystem.
type fakeRenderer struct {
	rendered []string
	removed  []string
	err      error
}

func (f *fakeRenderer) RenderToString(name string, _ map[string]interface{}) (string, error) {
	return "rendered " + name, f.err
}

func (f *fakeRenderer) RenderToFile(name, _ string, _ map[string]interface{}) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.rendered = append(f.rendered, name)
	return "/local/" + name, nil
}

func (f *fakeRenderer) Remove(path string) error {
	f.removed = append(f.removed, path)
	return nil
}

// journal is shared by stub tasks to record lifecycle calls in order.
type journal struct {
	calls []string
}

func (j *journal) add(format string, args ...interface{}) {
	j.calls = append(j.calls, fmt.Sprintf(format, args...))
}

func (j *journal) count(call string) int {
	n := 0
	for _, c := range j.calls {
		if c == call {
			n++
		}
	}
	return n
}

var errStub = errors.New("stub failure")

// stubTask records every phase call and fails the phase named in failIn.
type stubTask struct {
	Base
	journal *journal
	failIn  string
}

func (s *stubTask) PreRun(context.Context) error  { return s.phase("pre") }
func (s *stubTask) Run(context.Context) error     { return s.phase("run") }
func (s *stubTask) PostRun(context.Context) error { return s.phase("post") }

func (s *stubTask) phase(name string) error {
	s.journal.add("%s:%s", s.Name(), name)
	if s.failIn == name {
		return errStub
	}
	return nil
}

// stubDef describes one stub task registration.
type stubDef struct {
	name    string
	deps    []string
	failIn  string
	enabled func(*config.Config) bool
}

func stubRegistry(j *journal, defs ...stubDef) *Registry {
	reg := NewRegistry()
	for _, s := range defs {
		desc := Descriptor{
			Name:        s.name,
			Description: "stub " + s.name,
			DependsOn:   s.deps,
			EnabledWhen: s.enabled,
		}
		reg.MustRegister(desc, func(deps Deps) Task {
			return &stubTask{Base: NewBase(desc, deps), journal: j, failIn: s.failIn}
		})
	}
	return reg
}

// recorder captures observer events.
type recorder struct {
	mu     sync.Mutex
	events []observability.Event
}

func (r *recorder) Printf(string, ...interface{}) {}

func (r *recorder) Event(e observability.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Progress(string, int, int) {}

func (r *recorder) WithFields(map[string]string) observability.Observer { return r }

func (r *recorder) types() []observability.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]observability.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func testConfig(tasks ...string) *config.Config {
	cfg := config.Default()
	cfg.Host = "203.0.113.10"
	cfg.ServerHostname = "app.example.com"
	cfg.UserName = "deploy"
	cfg.Password = "s3cretpass"
	cfg.SelectedTasks = tasks
	return cfg
}
