package handlers

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testEnv = `HOST=203.0.113.10
SERVER_HOSTNAME=app.example.com
USER_NAME=deploy
PASSWORD=hunter22
SSL_EMAIL=ops@example.com
`

// saveAndRestoreFactories swaps the package factories for test doubles and
// restores them when the test ends. It returns the captured stdout.
func saveAndRestoreFactories(t *testing.T) *bytes.Buffer {
	t.Helper()

	origFs, origStdout, origStderr := fs, stdout, stderr
	origSession, origRenderer, origRegistry := newSession, newRenderer, newRegistry
	origTimeouts, origNow := loadTimeouts, now
	origWizard, origWrite := runWizard, writeConfig

	t.Cleanup(func() {
		fs, stdout, stderr = origFs, origStdout, origStderr
		newSession, newRenderer, newRegistry = origSession, origRenderer, origRegistry
		loadTimeouts, now = origTimeouts, origNow
		runWizard, writeConfig = origWizard, origWrite
	})

	out := &bytes.Buffer{}
	fs = afero.NewMemMapFs()
	stdout = out
	stderr = &bytes.Buffer{}
	return out
}

func writeEnvFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o600))
}
