package handlers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/observability"
	"github.com/imamik/hostforge/internal/provisioning"
	"github.com/imamik/hostforge/internal/remote"
	"github.com/imamik/hostforge/internal/render"
	testutil "github.com/imamik/hostforge/internal/testing"
)

// stubRemote installs a mock session and renderer and returns the mock and
// a pointer to the session config the handler requested.
func stubRemote(t *testing.T, session *testutil.MockRemote) *remote.Config {
	t.Helper()
	var got remote.Config
	newSession = func(cfg remote.Config, _ ...remote.Option) (provisioning.Session, error) {
		got = cfg
		return session, nil
	}
	newRenderer = func(*config.Config, ...render.Option) (provisioning.Renderer, error) {
		return testutil.NewMockRenderer(), nil
	}
	return &got
}

func TestSetup_FirewallOnly(t *testing.T) {
	saveAndRestoreFactories(t)
	writeEnvFile(t, "/work/.env", testEnv)

	session := testutil.NewRemoteFixture().
		CommandOutput("ufw status", "Status: active").
		AllSucceed()
	sessionCfg := stubRemote(t, session)

	metricsPath := filepath.Join(t.TempDir(), "hostforge.prom")
	err := Setup(context.Background(), SetupOptions{
		Global:      GlobalOptions{EnvFile: "/work/.env"},
		Overrides:   config.Overrides{Tasks: "firewall", SSHPort: 2222},
		ReportPath:  "/work/report.yaml",
		MetricsPath: metricsPath,
	})
	require.NoError(t, err)

	assert.Equal(t, "203.0.113.10", sessionCfg.Host)
	assert.Equal(t, 2222, sessionCfg.Port)
	assert.Equal(t, "root", sessionCfg.User)
	assert.Equal(t, "hunter22", sessionCfg.Password)

	session.AssertCalled(t, "Connect", mock.Anything)
	session.AssertCalled(t, "Disconnect")
	assert.Contains(t, session.Commands(), "ufw allow 2222/tcp")

	data, err := afero.ReadFile(fs, "/work/report.yaml")
	require.NoError(t, err)
	var report provisioning.Report
	require.NoError(t, yaml.Unmarshal(data, &report))
	assert.True(t, report.Success)
	require.Len(t, report.Tasks, 2)
	assert.Equal(t, "packages", report.Tasks[0].Name)
	assert.Equal(t, "firewall", report.Tasks[1].Name)

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `hostforge_task_runs_total{result="success",task="firewall"} 1`)
	assert.Contains(t, string(metrics), "hostforge_remote_commands_total")
}

func TestSetup_DryRun(t *testing.T) {
	out := saveAndRestoreFactories(t)
	writeEnvFile(t, "/work/.env", testEnv)

	newSession = func(remote.Config, ...remote.Option) (provisioning.Session, error) {
		t.Fatal("dry run must not open a session")
		return nil, nil
	}

	err := Setup(context.Background(), SetupOptions{
		Global:    GlobalOptions{EnvFile: "/work/.env"},
		Overrides: config.Overrides{Tasks: "service"},
		DryRun:    true,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Execution plan for 203.0.113.10")
	assert.Regexp(t, `(?s)user.*packages.*python.*app.*service`, out.String())
}

func TestSetup_OverridesFillMissingKeys(t *testing.T) {
	saveAndRestoreFactories(t)
	writeEnvFile(t, "/work/.env", "SERVER_HOSTNAME=app.example.com\nUSER_NAME=deploy\nPASSWORD=hunter22\n")

	session := testutil.NewRemoteFixture().AllSucceed()
	sessionCfg := stubRemote(t, session)

	err := Setup(context.Background(), SetupOptions{
		Global:    GlobalOptions{EnvFile: "/work/.env"},
		Overrides: config.Overrides{Host: "198.51.100.7", Tasks: "user", SSHKeyPath: "/keys/id_ed25519", LoginUser: "ubuntu"},
	})
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.7", sessionCfg.Host)
	assert.Equal(t, "/keys/id_ed25519", sessionCfg.KeyPath)
	assert.Equal(t, "ubuntu", sessionCfg.User)
}

func TestSetup_InvalidConfig(t *testing.T) {
	saveAndRestoreFactories(t)
	writeEnvFile(t, "/work/.env", "HOST=203.0.113.10\n")

	err := Setup(context.Background(), SetupOptions{Global: GlobalOptions{EnvFile: "/work/.env"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingKey)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestSetup_UnknownTaskDoesNotConnect(t *testing.T) {
	saveAndRestoreFactories(t)
	writeEnvFile(t, "/work/.env", testEnv)

	session := testutil.NewRemoteFixture().AllSucceed()
	stubRemote(t, session)

	err := Setup(context.Background(), SetupOptions{
		Global:    GlobalOptions{EnvFile: "/work/.env"},
		Overrides: config.Overrides{Tasks: "firewall,bogus"},
	})

	var unknown *provisioning.UnknownTaskError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"bogus"}, unknown.Names)
	session.AssertNotCalled(t, "Connect", mock.Anything)
}

func TestSetup_ConnectionFailureStillWritesReport(t *testing.T) {
	saveAndRestoreFactories(t)
	writeEnvFile(t, "/work/.env", testEnv)

	session := &testutil.MockRemote{}
	session.On("Connect", mock.Anything).Return(&remote.ConnectionError{Addr: "203.0.113.10:22", Err: errors.New("connection refused")})
	stubRemote(t, session)

	err := Setup(context.Background(), SetupOptions{
		Global:     GlobalOptions{EnvFile: "/work/.env"},
		ReportPath: "/work/report.yaml",
	})

	var connErr *remote.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Contains(t, err.Error(), "setup failed")

	data, err := afero.ReadFile(fs, "/work/report.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "success: false")
	assert.Contains(t, string(data), "connection refused")
}

func TestSetup_FailedRunKeepsPasswordOutOfReport(t *testing.T) {
	saveAndRestoreFactories(t)
	writeEnvFile(t, "/work/.env", testEnv)

	session := testutil.NewRemoteFixture().
		CommandFails("bash -c 'echo deploy:hunter22 | chpasswd'", "chpasswd: failure").
		AllSucceed()
	stubRemote(t, session)

	err := Setup(context.Background(), SetupOptions{
		Global:     GlobalOptions{EnvFile: "/work/.env"},
		Overrides:  config.Overrides{Tasks: "user"},
		ReportPath: "/work/report.yaml",
	})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "hunter22")

	data, err := afero.ReadFile(fs, "/work/report.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "chpasswd")
	assert.NotContains(t, string(data), "hunter22")
	assert.NotContains(t, stderr.(*bytes.Buffer).String(), "hunter22")
}

func TestSetup_UnknownLogFormat(t *testing.T) {
	saveAndRestoreFactories(t)
	writeEnvFile(t, "/work/.env", testEnv)

	err := Setup(context.Background(), SetupOptions{
		Global: GlobalOptions{EnvFile: "/work/.env", LogFormat: "xml"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestNewObserver(t *testing.T) {
	saveAndRestoreFactories(t)

	obs, err := newObserver(GlobalOptions{})
	require.NoError(t, err)
	assert.IsType(t, &observability.ConsoleObserver{}, obs)

	obs, err = newObserver(GlobalOptions{LogFormat: LogFormatJSON})
	require.NoError(t, err)
	obs.Printf("hello %s", "world")
	assert.Contains(t, stderr.(*bytes.Buffer).String(), `"msg":"hello world"`)
}
