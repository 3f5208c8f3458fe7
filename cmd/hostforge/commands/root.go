// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostforge/cmd/hostforge/handlers"
	"github.com/imamik/hostforge/internal/config"
)

// Root returns the root command for the hostforge CLI.
func Root() *cobra.Command {
	global := &handlers.GlobalOptions{}

	cmd := &cobra.Command{
		Use:           "hostforge",
		Short:         "Provision a web application server over SSH",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&global.EnvFile, "env-file", config.DefaultEnvFile, "Path to the env configuration file")
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Show every remote command")
	cmd.PersistentFlags().StringVar(&global.LogFormat, "log-format", handlers.LogFormatText, "Log format: text or json")

	cmd.AddCommand(Setup(global))
	cmd.AddCommand(ListTasks(global))
	cmd.AddCommand(Init())
	cmd.AddCommand(Version())

	return cmd
}
