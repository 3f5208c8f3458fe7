package testing

import (
	"github.com/stretchr/testify/mock"

	"github.com/imamik/hostforge/internal/remote"
)

// RemoteFixture provides a pre-configured MockRemote for common scenarios.
type RemoteFixture struct {
	mock *MockRemote
}

// NewRemoteFixture creates a new remote fixture.
func NewRemoteFixture() *RemoteFixture {
	return &RemoteFixture{mock: &MockRemote{}}
}

// Mock returns the underlying MockRemote for custom configuration.
func (f *RemoteFixture) Mock() *MockRemote {
	return f.mock
}

// Command makes command return res. Call it before AllSucceed so the
// specific expectation wins over the catch-all.
func (f *RemoteFixture) Command(command string, res remote.Result) *RemoteFixture {
	f.mock.OnCommand(command, res)
	return f
}

// CommandOutput makes command succeed with stdout.
func (f *RemoteFixture) CommandOutput(command, stdout string) *RemoteFixture {
	return f.Command(command, remote.Result{Stdout: stdout})
}

// CommandFails makes command exit with status 1 and stderr.
func (f *RemoteFixture) CommandFails(command, stderr string) *RemoteFixture {
	return f.Command(command, remote.Result{ExitCode: 1, Stderr: stderr})
}

// Exists marks a remote path as present.
func (f *RemoteFixture) Exists(path string) *RemoteFixture {
	f.mock.On("FileExists", mock.Anything, path).Return(true)
	return f
}

// AllSucceed configures every remaining call to succeed and returns the mock.
func (f *RemoteFixture) AllSucceed() *MockRemote {
	f.mock.On("Connect", mock.Anything).Return(nil)
	f.mock.On("Disconnect").Return(nil)
	f.mock.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return(remote.Result{})
	f.mock.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.mock.On("Download", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.mock.On("FileExists", mock.Anything, mock.Anything).Return(false)
	return f.mock
}
