package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override file values,
// e.g. HOSTFORGE_HOST overrides HOST.
const EnvPrefix = "HOSTFORGE"

// Keys accepted in the env file.
const (
	KeyHost              = "host"
	KeySSHPort           = "ssh_port"
	KeySSHKeyPath        = "ssh_key_path"
	KeyLoginUser         = "login_user"
	KeyServerHostname    = "server_hostname"
	KeyUserName          = "user_name"
	KeyPassword          = "password"
	KeyAppPort           = "app_port"
	KeyAppRepo           = "app_repo"
	KeySSLEnabled        = "ssl_enabled"
	KeySSLEmail          = "ssl_email"
	KeyUseWWW            = "use_www"
	KeyCloudflareEnabled = "cloudflare_enabled"
	KeyPostgresEnabled   = "postgres_enabled"
	KeySelectedTasks     = "selected_tasks"
)

// aliases maps legacy key names onto their current key.
var aliases = map[string]string{
	"python_port":  KeyAppPort,
	"ansible_user": KeyLoginUser,
}

// LoadFile reads the configuration from an env file on the OS filesystem.
func LoadFile(path string) (*Config, error) {
	return Load(afero.NewOsFs(), path)
}

// Load reads the configuration from the env file at path on fs and
// validates it.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg, err := Read(fs, path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Read reads the configuration from the env file at path on fs without
// validating it, so command-line overrides can fill in missing keys first.
//
// A missing file is not an error: values may come entirely from HOSTFORGE_*
// environment variables.
func Read(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("env")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to check config file %s: %w", path, err)
	}
	if exists {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return decode(v)
}

// decode converts raw viper values into a Config, applying defaults.
func decode(v *viper.Viper) (*Config, error) {
	get := func(key string) string {
		if value := strings.TrimSpace(v.GetString(key)); value != "" {
			return value
		}
		for alias, target := range aliases {
			if target == key {
				return strings.TrimSpace(v.GetString(alias))
			}
		}
		return ""
	}

	var result *multierror.Error
	parsePort := func(key string, def int) int {
		raw := get(key)
		if raw == "" {
			return def
		}
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			result = multierror.Append(result, fmt.Errorf("%s must be a port number, got %q", strings.ToUpper(key), raw))
			return def
		}
		return port
	}

	cfg := Default()
	cfg.Host = get(KeyHost)
	cfg.SSHPort = parsePort(KeySSHPort, DefaultSSHPort)
	cfg.SSHKeyPath = get(KeySSHKeyPath)
	if user := get(KeyLoginUser); user != "" {
		cfg.LoginUser = user
	}
	cfg.ServerHostname = get(KeyServerHostname)
	cfg.UserName = get(KeyUserName)
	cfg.Password = v.GetString(KeyPassword)
	cfg.AppPort = parsePort(KeyAppPort, DefaultAppPort)
	if repo := get(KeyAppRepo); repo != "" {
		cfg.AppRepo = repo
	}
	cfg.SSLEnabled = ParseBool(get(KeySSLEnabled), true)
	cfg.SSLEmail = get(KeySSLEmail)
	cfg.UseWWW = ParseBool(get(KeyUseWWW), false)
	cfg.CloudflareEnabled = ParseBool(get(KeyCloudflareEnabled), false)
	cfg.PostgresEnabled = ParseBool(get(KeyPostgresEnabled), false)
	cfg.SelectedTasks = ParseTaskList(get(KeySelectedTasks))

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}
