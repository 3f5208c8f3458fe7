package wizard

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/imamik/hostforge/internal/config"
)

// Function variables for dependency injection in tests.
var (
	confirmOverwrite = defaultConfirmOverwrite
	now              = time.Now
)

// WriteConfig writes cfg as an env file with a descriptive header.
// An existing file is only replaced after confirmation; a declined
// overwrite returns ErrOverwriteDeclined.
func WriteConfig(fs afero.Fs, cfg *config.Config, outputPath string) error {
	exists, err := afero.Exists(fs, outputPath)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", outputPath, err)
	}
	if exists {
		ok, err := confirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !ok {
			return ErrOverwriteDeclined
		}
	}

	return config.Save(fs, outputPath, cfg, generateHeader(outputPath))
}

func generateHeader(outputPath string) string {
	var sb strings.Builder
	sb.WriteString("# hostforge server configuration\n")
	fmt.Fprintf(&sb, "# Generated by 'hostforge init' on %s\n", now().Format("2006-01-02 15:04"))
	sb.WriteString("#\n")
	sb.WriteString("# Contains the account password; keep this file out of version control.\n")
	fmt.Fprintf(&sb, "# Provision with: hostforge setup --env-file %s\n", filepath.Base(outputPath))
	return sb.String()
}

func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	return config.ParseBool(response, false) || strings.EqualFold(strings.TrimSpace(response), "y"), nil
}
