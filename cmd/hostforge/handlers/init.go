package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// runWizard runs the interactive wizard.
	runWizard = wizard.Run

	// writeConfig writes the env file.
	writeConfig = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result as an env file.
func Init(ctx context.Context, outputPath string) error {
	if outputPath == "" {
		outputPath = config.DefaultEnvFile
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := wizard.BuildConfig(result)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("wizard produced an invalid configuration: %w", err)
	}

	if err := writeConfig(fs, cfg, outputPath); err != nil {
		if errors.Is(err, wizard.ErrOverwriteDeclined) {
			fmt.Fprintf(stdout, "Kept existing %s\n", outputPath)
			return nil
		}
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

func printWelcome() {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "hostforge - server provisioning over SSH")
	fmt.Fprintln(stdout, "========================================")
	fmt.Fprintln(stdout)
}

func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File:     %s\n", outputPath)
	fmt.Fprintf(stdout, "  Host:     %s\n", cfg.Host)
	fmt.Fprintf(stdout, "  Hostname: %s\n", cfg.ServerHostname)
	fmt.Fprintf(stdout, "  User:     %s\n", cfg.UserName)
	if len(cfg.SelectedTasks) > 0 {
		fmt.Fprintf(stdout, "  Tasks:    %v\n", cfg.SelectedTasks)
	} else {
		fmt.Fprintln(stdout, "  Tasks:    all")
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Next step:")
	fmt.Fprintf(stdout, "  hostforge setup --env-file %s\n", outputPath)
}
