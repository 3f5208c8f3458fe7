package provisioning

import (
	"context"

	"github.com/imamik/hostforge/internal/remote"
)

// Remote is the remote execution surface tasks use.
// Implemented by remote.Session.
type Remote interface {
	// Execute runs command, prefixed for privilege escalation when privileged.
	Execute(ctx context.Context, command string, privileged bool) remote.Result

	// Upload copies a local file to the remote host.
	Upload(ctx context.Context, localPath, remotePath string) error

	// Download copies a remote file to the local host.
	Download(ctx context.Context, remotePath, localPath string) error

	// FileExists reports whether a remote path exists.
	FileExists(ctx context.Context, remotePath string) bool
}

// Session is a Remote with an explicit connection lifecycle.
type Session interface {
	Remote
	Connect(ctx context.Context) error
	Disconnect() error
}

// Renderer materializes templates for upload.
// Implemented by render.Renderer.
type Renderer interface {
	RenderToString(name string, extra map[string]interface{}) (string, error)
	RenderToFile(name, outputPath string, extra map[string]interface{}) (string, error)
	Remove(path string) error
}
