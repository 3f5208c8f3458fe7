package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Host = "203.0.113.10"
	cfg.ServerHostname = "app.example.com"
	cfg.UserName = "deploy"
	cfg.Password = "hunter22"
	return cfg
}

func TestConfig_Vars(t *testing.T) {
	cfg := validConfig()

	vars, err := cfg.Vars()
	require.NoError(t, err)

	assert.Equal(t, "app.example.com", vars["server_hostname"])
	assert.Equal(t, "deploy", vars["user_name"])
	assert.Equal(t, 5000, vars["app_port"])
	assert.Equal(t, true, vars["ssl_enabled"])
	assert.Equal(t, "/home/deploy/app.example.com", vars["app_dir"])
	assert.NotContains(t, vars, "password")
}

func TestConfig_Clone(t *testing.T) {
	cfg := validConfig()
	cfg.SelectedTasks = []string{"user"}

	clone := cfg.Clone()
	clone.SelectedTasks[0] = "packages"
	clone.Host = "other"

	assert.Equal(t, []string{"user"}, cfg.SelectedTasks)
	assert.Equal(t, "203.0.113.10", cfg.Host)
}

func TestConfig_Helpers(t *testing.T) {
	cfg := validConfig()
	assert.False(t, cfg.UsesKeyAuth())

	cfg.SSHKeyPath = "~/.ssh/id_ed25519"
	assert.True(t, cfg.UsesKeyAuth())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.SSHPort = 70000
	cfg.AppPort = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SSH_PORT")
	assert.Contains(t, err.Error(), "APP_PORT")
}

func TestEncode_Quoting(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"plain", "plain"},
		{"", ""},
		{"with space", "'with space'"},
		{"pa$$word", "'pa$$word'"},
		{"it's", `"it's"`},
		{`it's "$x"`, `"it's \"\$x\""`},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteValue(tt.value))
		})
	}
}
