// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr/funcr"
	"github.com/spf13/afero"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/observability"
)

// Log formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	EnvFile   string
	Verbose   bool
	LogFormat string
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// fs is the filesystem config, reports and env files are read from and written to.
	fs = afero.NewOsFs()

	// stdout receives command output.
	stdout io.Writer = os.Stdout

	// stderr receives log output.
	stderr io.Writer = os.Stderr
)

// readConfig loads the env file without validating it.
func readConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultEnvFile
	}
	return config.Read(fs, path)
}

// newObserver builds the log observer selected by --log-format.
func newObserver(opts GlobalOptions) (observability.Observer, error) {
	switch opts.LogFormat {
	case "", LogFormatText:
		return observability.NewConsoleObserver(stderr, observability.WithVerbose(opts.Verbose)), nil
	case LogFormatJSON:
		verbosity := 0
		if opts.Verbose {
			verbosity = 1
		}
		log := funcr.NewJSON(func(obj string) {
			fmt.Fprintln(stderr, obj)
		}, funcr.Options{LogTimestamp: true, Verbosity: verbosity})
		return observability.NewLogrObserver(log, opts.Verbose), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want %s or %s)", opts.LogFormat, LogFormatText, LogFormatJSON)
	}
}
