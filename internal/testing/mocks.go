package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/hostforge/internal/remote"
)

// MockRemote is a mock implementation of provisioning.Session.
type MockRemote struct {
	mock.Mock
}

// Connect mocks session connection.
func (m *MockRemote) Connect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Disconnect mocks session teardown.
func (m *MockRemote) Disconnect() error {
	args := m.Called()
	return args.Error(0)
}

// Execute mocks remote command execution.
func (m *MockRemote) Execute(ctx context.Context, command string, privileged bool) remote.Result {
	args := m.Called(ctx, command, privileged)
	return args.Get(0).(remote.Result)
}

// Upload mocks a file upload.
func (m *MockRemote) Upload(ctx context.Context, localPath, remotePath string) error {
	args := m.Called(ctx, localPath, remotePath)
	return args.Error(0)
}

// Download mocks a file download.
func (m *MockRemote) Download(ctx context.Context, remotePath, localPath string) error {
	args := m.Called(ctx, remotePath, localPath)
	return args.Error(0)
}

// FileExists mocks a remote existence check.
func (m *MockRemote) FileExists(ctx context.Context, remotePath string) bool {
	args := m.Called(ctx, remotePath)
	return args.Bool(0)
}

// Commands returns every executed command in call order.
func (m *MockRemote) Commands() []string {
	var commands []string
	for _, call := range m.Calls {
		if call.Method == "Execute" {
			commands = append(commands, call.Arguments.String(1))
		}
	}
	return commands
}

// Uploads returns the remote destinations of every upload in call order.
func (m *MockRemote) Uploads() []string {
	var paths []string
	for _, call := range m.Calls {
		if call.Method == "Upload" {
			paths = append(paths, call.Arguments.String(2))
		}
	}
	return paths
}

// OnCommand makes command return res. Register specific commands before
// the catch-all installed by RemoteFixture.AllSucceed.
func (m *MockRemote) OnCommand(command string, res remote.Result) *MockRemote {
	m.On("Execute", mock.Anything, command, mock.Anything).Return(res)
	return m
}

// MockRenderer is a mock implementation of provisioning.Renderer.
type MockRenderer struct {
	mock.Mock
}

// RenderToString mocks template rendering.
func (m *MockRenderer) RenderToString(name string, extra map[string]interface{}) (string, error) {
	args := m.Called(name, extra)
	return args.String(0), args.Error(1)
}

// RenderToFile mocks rendering into a file.
func (m *MockRenderer) RenderToFile(name, outputPath string, extra map[string]interface{}) (string, error) {
	args := m.Called(name, outputPath, extra)
	if fn, ok := args.Get(0).(func(string, string, map[string]interface{}) string); ok {
		return fn(name, outputPath, extra), args.Error(1)
	}
	return args.String(0), args.Error(1)
}

// Remove mocks deleting a rendered file.
func (m *MockRenderer) Remove(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// Rendered returns the names of every template rendered to a file, in call order.
func (m *MockRenderer) Rendered() []string {
	var names []string
	for _, call := range m.Calls {
		if call.Method == "RenderToFile" {
			names = append(names, call.Arguments.String(0))
		}
	}
	return names
}

// NewMockRenderer returns a renderer that renders every template to
// /tmp/rendered-<name>.
func NewMockRenderer() *MockRenderer {
	m := &MockRenderer{}
	m.On("RenderToFile", mock.Anything, mock.Anything, mock.Anything).Return(
		func(name, _ string, _ map[string]interface{}) string { return "/tmp/rendered-" + name },
		nil,
	)
	m.On("RenderToString", mock.Anything, mock.Anything).Return("", nil)
	m.On("Remove", mock.Anything).Return(nil)
	return m
}
