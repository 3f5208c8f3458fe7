package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/observability"
	"github.com/imamik/hostforge/internal/provisioning"
	"github.com/imamik/hostforge/internal/remote"
	"github.com/imamik/hostforge/internal/render"
	"github.com/imamik/hostforge/internal/tasks"
)

// SetupOptions are the flags of the setup command.
type SetupOptions struct {
	Global    GlobalOptions
	Overrides config.Overrides

	KnownHosts  string
	DryRun      bool
	ReportPath  string
	MetricsPath string
}

// Factory function variables for setup - can be replaced in tests.
var (
	// newSession creates the remote session for a run.
	newSession = func(cfg remote.Config, opts ...remote.Option) (provisioning.Session, error) {
		return remote.NewSession(cfg, opts...)
	}

	// newRenderer creates the template renderer for a run.
	newRenderer = func(cfg *config.Config, opts ...render.Option) (provisioning.Renderer, error) {
		return render.New(cfg, opts...)
	}

	// newRegistry creates the task registry.
	newRegistry = tasks.NewRegistry

	// loadTimeouts reads the session timeouts.
	loadTimeouts = config.LoadTimeouts

	// now returns the current time.
	now = time.Now
)

// Setup provisions the configured host.
//
// The workflow is:
//  1. Read the env file and apply command-line overrides
//  2. Validate the configuration and the task selection
//  3. Connect, run the selected tasks with their dependencies, disconnect
//  4. Write the optional run report and metrics textfile
//
// With DryRun set, step 3 is replaced by printing the execution order and the
// host is never contacted.
func Setup(ctx context.Context, opts SetupOptions) error {
	cfg, err := readConfig(opts.Global.EnvFile)
	if err != nil {
		return err
	}
	cfg = opts.Overrides.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	observer, err := newObserver(opts.Global)
	if err != nil {
		return err
	}

	reg, err := newRegistry()
	if err != nil {
		return err
	}

	if opts.DryRun {
		return printPlan(reg, cfg)
	}

	var metrics *provisioning.Metrics
	if opts.MetricsPath != "" {
		metrics = provisioning.NewMetrics()
		observer = metrics.Observe(observer)
	}

	timeouts := loadTimeouts()
	session, err := newSession(remote.Config{
		Host:           cfg.Host,
		Port:           cfg.SSHPort,
		User:           cfg.LoginUser,
		Password:       cfg.Password,
		KeyPath:        cfg.SSHKeyPath,
		KnownHostsPath: opts.KnownHosts,
		DialTimeout:    timeouts.Connect,
		CommandTimeout: timeouts.Command,
		ConnectRetries: timeouts.ConnectRetries,
	}, remote.WithObserver(observer))
	if err != nil {
		return err
	}

	renderer, err := newRenderer(cfg, render.WithObserver(observer))
	if err != nil {
		return err
	}

	orcOpts := []provisioning.OrchestratorOption{provisioning.WithObserver(observer)}
	if metrics != nil {
		orcOpts = append(orcOpts, provisioning.WithMetrics(metrics))
	}
	orc := provisioning.NewOrchestrator(reg, cfg, session, renderer, orcOpts...)

	observer.Printf("Provisioning %s (%s) as %s", cfg.Host, cfg.ServerHostname, cfg.LoginUser)
	started := now()
	runErr := orc.Setup(ctx)
	finished := now()

	var result *multierror.Error
	if runErr != nil {
		result = multierror.Append(result, fmt.Errorf("setup failed: %w", runErr))
	}
	if opts.ReportPath != "" {
		if err := provisioning.WriteReport(fs, opts.ReportPath, orc.NewReport(started, finished, runErr)); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if metrics != nil {
		if err := metrics.WriteTextfile(opts.MetricsPath); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to write metrics: %w", err))
		}
	}

	if runErr == nil {
		printSetupSuccess(observer, cfg, orc.Completed())
	}
	return result.ErrorOrNil()
}

func printPlan(reg *provisioning.Registry, cfg *config.Config) error {
	orc := provisioning.NewOrchestrator(reg, cfg, nil, nil)
	order, err := orc.Plan()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Execution plan for %s (%s):\n", cfg.Host, cfg.ServerHostname)
	for i, name := range order {
		desc, _ := reg.Lookup(name)
		fmt.Fprintf(stdout, "  %2d. %-12s %s\n", i+1, name, desc.Description)
	}
	return nil
}

func printSetupSuccess(observer observability.Observer, cfg *config.Config, completed []string) {
	observer.Printf("Completed: %s", strings.Join(completed, ", "))
	scheme := "http"
	if cfg.SSLEnabled && lo.Some(completed, []string{tasks.NameNginxSSL, tasks.NameNginxWWW}) {
		scheme = "https"
	}
	observer.Printf("Server is ready at %s://%s", scheme, cfg.ServerHostname)
}
