package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostforge/cmd/hostforge/handlers"
)

// ListTasks returns the command that prints the available tasks.
func ListTasks(global *handlers.GlobalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list-tasks",
		Short: "List available tasks",
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.ListTasks(*global, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", handlers.OutputText, "Output format: text or yaml")

	return cmd
}
