package wizard

import (
	"strconv"
	"strings"

	"github.com/imamik/hostforge/internal/config"
)

// BuildConfig converts wizard answers into a Config.
func BuildConfig(result *Result) *config.Config {
	cfg := config.Default()

	cfg.Host = strings.TrimSpace(result.Host)
	if port, err := strconv.Atoi(strings.TrimSpace(result.SSHPort)); err == nil {
		cfg.SSHPort = port
	}
	cfg.SSHKeyPath = strings.TrimSpace(result.SSHKeyPath)
	if user := strings.TrimSpace(result.LoginUser); user != "" {
		cfg.LoginUser = user
	}

	cfg.ServerHostname = strings.TrimSpace(result.ServerHostname)
	cfg.UserName = strings.TrimSpace(result.UserName)
	cfg.Password = result.Password

	cfg.SSLEnabled = result.SSLEnabled
	if result.SSLEnabled {
		cfg.SSLEmail = strings.TrimSpace(result.SSLEmail)
	}
	cfg.UseWWW = result.UseWWW
	cfg.CloudflareEnabled = result.CloudflareEnabled
	cfg.PostgresEnabled = result.PostgresEnabled
	cfg.SelectedTasks = config.NormalizeTaskList(result.SelectedTasks)

	return cfg
}
