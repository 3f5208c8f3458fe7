package wizard

import "github.com/charmbracelet/huh"

// TaskOption describes a selectable task.
type TaskOption struct {
	Value       string
	Description string
}

// Tasks lists the selectable tasks in run order.
var Tasks = []TaskOption{
	{Value: "packages", Description: "System packages"},
	{Value: "user", Description: "Application user"},
	{Value: "firewall", Description: "UFW firewall"},
	{Value: "python", Description: "Python runtime"},
	{Value: "database", Description: "PostgreSQL database"},
	{Value: "app", Description: "Application checkout"},
	{Value: "service", Description: "systemd services"},
	{Value: "nginx_basic", Description: "nginx without SSL"},
	{Value: "nginx_ssl", Description: "nginx with SSL"},
	{Value: "nginx_www", Description: "nginx with SSL and www"},
}

// TaskOptions converts Tasks to huh options. The database task is only
// offered when PostgreSQL is enabled.
func TaskOptions(postgres bool) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(Tasks))
	for _, t := range Tasks {
		if t.Value == "database" && !postgres {
			continue
		}
		opts = append(opts, huh.NewOption(t.Value+" - "+t.Description, t.Value))
	}
	return opts
}
