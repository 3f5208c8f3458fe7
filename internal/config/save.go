package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// Encode renders cfg as env file lines in a stable key order.
func Encode(cfg *Config) string {
	lines := []struct {
		key   string
		value string
	}{
		{KeyHost, cfg.Host},
		{KeyServerHostname, cfg.ServerHostname},
		{KeyUserName, cfg.UserName},
		{KeyPassword, cfg.Password},
		{KeySSHPort, strconv.Itoa(cfg.SSHPort)},
		{KeySSHKeyPath, cfg.SSHKeyPath},
		{KeyLoginUser, cfg.LoginUser},
		{KeyAppPort, strconv.Itoa(cfg.AppPort)},
		{KeyAppRepo, cfg.AppRepo},
		{KeySSLEnabled, strconv.FormatBool(cfg.SSLEnabled)},
		{KeySSLEmail, cfg.SSLEmail},
		{KeyUseWWW, strconv.FormatBool(cfg.UseWWW)},
		{KeyCloudflareEnabled, strconv.FormatBool(cfg.CloudflareEnabled)},
		{KeyPostgresEnabled, strconv.FormatBool(cfg.PostgresEnabled)},
		{KeySelectedTasks, strings.Join(cfg.SelectedTasks, ",")},
	}

	var sb strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&sb, "%s=%s\n", strings.ToUpper(l.key), quoteValue(l.value))
	}
	return sb.String()
}

// Save writes cfg to path on fs with owner-only permissions, since the file
// holds the account password.
func Save(fs afero.Fs, path string, cfg *Config, header string) error {
	var sb strings.Builder
	if header != "" {
		sb.WriteString(header)
		if !strings.HasSuffix(header, "\n") {
			sb.WriteString("\n")
		}
	}
	sb.WriteString(Encode(cfg))

	if err := afero.WriteFile(fs, path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// quoteValue quotes values the env parser would otherwise split, expand or
// treat as a comment. Single quotes are literal; values containing a single
// quote fall back to double quotes with escapes.
func quoteValue(value string) string {
	if value == "" || !strings.ContainsAny(value, " \t#$\"'\\`=") {
		return value
	}
	if !strings.Contains(value, "'") {
		return "'" + value + "'"
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`).Replace(value)
	return `"` + escaped + `"`
}
