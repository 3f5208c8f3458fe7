package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostforge/cmd/hostforge/handlers"
	"github.com/imamik/hostforge/internal/config"
)

// Init returns the command for interactively creating an env file.
//
// Flags:
//
//	--output, -o: Path to output file (default ".env")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a server configuration",
		Long: `Interactively create an env file for 'hostforge setup'.

The wizard asks about:

  - Connection (host, SSH port, key, login user)
  - Server hostname and application account
  - SSL, www redirect, Cloudflare and PostgreSQL
  - Which tasks to run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultEnvFile, "Output file path")

	return cmd
}
