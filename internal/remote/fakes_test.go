package remote

import (
	"context"
	"io"
	"os"

	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"

	"github.com/imamik/hostforge/internal/observability"
)

type fakeClient struct {
	commands []string
	results  map[string]Result
	runErr   error
	files    *fakeFiles
	filesErr error
	closed   bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		results: make(map[string]Result),
		files:   &fakeFiles{fs: afero.NewMemMapFs()},
	}
}

func (c *fakeClient) Run(_ context.Context, command string) (Result, error) {
	c.commands = append(c.commands, command)
	if c.runErr != nil {
		return Result{}, c.runErr
	}
	if res, ok := c.results[command]; ok {
		return res, nil
	}
	return Result{}, nil
}

func (c *fakeClient) Files() (FileClient, error) {
	if c.filesErr != nil {
		return nil, c.filesErr
	}
	return c.files, nil
}

func (c *fakeClient) Close() error {
	c.closed = true
	return nil
}

type fakeFiles struct {
	fs      afero.Fs
	statErr error
	closed  bool
}

func (f *fakeFiles) Create(path string) (io.WriteCloser, error) { return f.fs.Create(path) }

func (f *fakeFiles) Open(path string) (io.ReadCloser, error) { return f.fs.Open(path) }

func (f *fakeFiles) Stat(path string) (os.FileInfo, error) {
	if f.statErr != nil {
		return nil, f.statErr
	}
	return f.fs.Stat(path)
}

func (f *fakeFiles) Close() error {
	f.closed = true
	return nil
}

type recorder struct {
	events []observability.Event
}

func (r *recorder) Printf(string, ...interface{}) {}

func (r *recorder) Event(e observability.Event) { r.events = append(r.events, e) }

func (r *recorder) Progress(string, int, int) {}

func (r *recorder) WithFields(map[string]string) observability.Observer { return r }

func (r *recorder) count(t observability.EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// dialerFor returns a Dialer handing out client and counting dials.
func dialerFor(client Client, dials *int, seen **ssh.ClientConfig) Dialer {
	return func(_ context.Context, _ string, cfg *ssh.ClientConfig) (Client, error) {
		*dials++
		if seen != nil {
			*seen = cfg
		}
		return client, nil
	}
}
