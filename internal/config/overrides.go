package config

import (
	"github.com/samber/lo"
)

// Task names the overrides rewrite.
const (
	taskDatabase   = "database"
	taskNginx      = "nginx"
	taskNginxBasic = "nginx_basic"
	taskNginxSSL   = "nginx_ssl"
	taskNginxWWW   = "nginx_www"
)

// Overrides are command-line adjustments applied on top of a loaded Config.
// Zero values leave the corresponding setting untouched.
type Overrides struct {
	Host       string
	SSHKeyPath string
	SSHPort    int
	LoginUser  string
	Tasks      string

	// SkipSSL disables SSL and swaps the SSL nginx tasks for nginx_basic.
	SkipSSL bool
	// UseWWW enables the www redirect and swaps nginx_ssl for nginx_www.
	UseWWW bool
	// Postgres enables the database task.
	Postgres bool
}

// Apply returns a copy of cfg with the overrides applied. cfg is not modified.
func (o Overrides) Apply(cfg *Config) *Config {
	out := cfg.Clone()

	if o.Host != "" {
		out.Host = o.Host
	}
	if o.SSHKeyPath != "" {
		out.SSHKeyPath = o.SSHKeyPath
	}
	if o.SSHPort != 0 {
		out.SSHPort = o.SSHPort
	}
	if o.LoginUser != "" {
		out.LoginUser = o.LoginUser
	}
	if o.Tasks != "" {
		out.SelectedTasks = ParseTaskList(o.Tasks)
	}

	if o.Postgres {
		out.PostgresEnabled = true
		// An explicit selection from the env file gains the database task;
		// an empty selection already covers every enabled task.
		if o.Tasks == "" && len(out.SelectedTasks) > 0 && !lo.Contains(out.SelectedTasks, taskDatabase) {
			out.SelectedTasks = append(out.SelectedTasks, taskDatabase)
		}
	}

	if o.UseWWW {
		out.UseWWW = true
		out.SelectedTasks = replaceTasks(out.SelectedTasks, taskNginxWWW, taskNginx, taskNginxSSL)
	}

	if o.SkipSSL {
		out.SSLEnabled = false
		out.SelectedTasks = replaceTasks(out.SelectedTasks, taskNginxBasic, taskNginx, taskNginxSSL, taskNginxWWW)
	}

	return out
}

// replaceTasks substitutes every name in from with to, keeping the first
// occurrence of each resulting name.
func replaceTasks(tasks []string, to string, from ...string) []string {
	if len(tasks) == 0 {
		return tasks
	}
	replaced := lo.Map(tasks, func(name string, _ int) string {
		if lo.Contains(from, name) {
			return to
		}
		return name
	})
	return lo.Uniq(replaced)
}
