package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Default values for optional keys.
const (
	DefaultSSHPort   = 22
	DefaultAppPort   = 5000
	DefaultLoginUser = "root"
	DefaultAppRepo   = "https://github.com/level09/enferno.git"
	DefaultEnvFile   = ".env"
)

// Config is the immutable configuration of one provisioning run.
//
// The mapstructure tags double as template variable names, so a template
// refers to the server hostname as {{ .server_hostname }}.
type Config struct {
	// Connection
	Host       string `mapstructure:"host"`
	SSHPort    int    `mapstructure:"ssh_port"`
	SSHKeyPath string `mapstructure:"ssh_key_path"`
	LoginUser  string `mapstructure:"login_user"`

	// Target identity
	ServerHostname string `mapstructure:"server_hostname"`
	UserName       string `mapstructure:"user_name"`
	Password       string `mapstructure:"password"`

	// Application
	AppPort int    `mapstructure:"app_port"`
	AppRepo string `mapstructure:"app_repo"`

	// Feature toggles
	SSLEnabled        bool   `mapstructure:"ssl_enabled"`
	SSLEmail          string `mapstructure:"ssl_email"`
	UseWWW            bool   `mapstructure:"use_www"`
	CloudflareEnabled bool   `mapstructure:"cloudflare_enabled"`
	PostgresEnabled   bool   `mapstructure:"postgres_enabled"`

	// SelectedTasks is the normalized task selection. Empty means every task.
	SelectedTasks []string `mapstructure:"selected_tasks"`
}

// Default returns a Config with every optional key at its default value.
func Default() *Config {
	return &Config{
		SSHPort:    DefaultSSHPort,
		LoginUser:  DefaultLoginUser,
		AppPort:    DefaultAppPort,
		AppRepo:    DefaultAppRepo,
		SSLEnabled: true,
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	if c.SelectedTasks != nil {
		clone.SelectedTasks = append([]string(nil), c.SelectedTasks...)
	}
	return &clone
}

// UsesKeyAuth reports whether the session should authenticate with a private key.
func (c *Config) UsesKeyAuth() bool {
	return strings.TrimSpace(c.SSHKeyPath) != ""
}

// AppDir is the directory the application is checked out into.
func (c *Config) AppDir() string {
	return fmt.Sprintf("/home/%s/%s", c.UserName, c.ServerHostname)
}

// Vars returns the template variable namespace derived from c.
// The account password is never exposed to templates.
func (c *Config) Vars() (map[string]interface{}, error) {
	vars := make(map[string]interface{})
	if err := mapstructure.Decode(c, &vars); err != nil {
		return nil, fmt.Errorf("failed to decode config into template variables: %w", err)
	}
	delete(vars, "password")
	vars["app_dir"] = c.AppDir()
	return vars, nil
}
