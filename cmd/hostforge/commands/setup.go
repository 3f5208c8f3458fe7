package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostforge/cmd/hostforge/handlers"
)

// Setup returns the command that provisions the configured server.
//
// Flags override values from the env file:
//
//	--host, --ssh-key, --ssh-port, --user: connection settings
//	--tasks: comma-separated task selection (dependencies are added automatically)
//	--skip-ssl, --use-www, --postgres: feature toggles
func Setup(global *handlers.GlobalOptions) *cobra.Command {
	opts := handlers.SetupOptions{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision the server",
		Long: `Provision the server described by the env file.

Tasks run in order, each after the tasks it depends on. The run stops at
the first failing task.

Examples:
  # Run every task
  hostforge setup

  # Configure only the firewall (installs packages first)
  hostforge setup --tasks firewall

  # Show what would run without connecting
  hostforge setup --tasks service --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Global = *global
			return handlers.Setup(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Overrides.Host, "host", "", "Server address")
	f.StringVar(&opts.Overrides.SSHKeyPath, "ssh-key", "", "Private key for SSH authentication")
	f.IntVar(&opts.Overrides.SSHPort, "ssh-port", 0, "SSH port")
	f.StringVar(&opts.Overrides.LoginUser, "user", "", "SSH login user")
	f.StringVar(&opts.Overrides.Tasks, "tasks", "", "Comma-separated tasks to run (default: all)")
	f.BoolVar(&opts.Overrides.SkipSSL, "skip-ssl", false, "Skip certificate setup and serve plain HTTP")
	f.BoolVar(&opts.Overrides.UseWWW, "use-www", false, "Also serve and redirect the www subdomain")
	f.BoolVar(&opts.Overrides.Postgres, "postgres", false, "Set up a PostgreSQL database")
	f.StringVar(&opts.KnownHosts, "known-hosts", "", "Verify the host key against this known_hosts file")
	f.BoolVar(&opts.DryRun, "dry-run", false, "Print the execution order without connecting")
	f.StringVar(&opts.ReportPath, "report", "", "Write a YAML run report to this path")
	f.StringVar(&opts.MetricsPath, "metrics-file", "", "Write Prometheus metrics to this textfile")

	_ = cmd.RegisterFlagCompletionFunc("tasks", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return handlers.TaskNames(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
