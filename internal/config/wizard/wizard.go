package wizard

import (
	"context"
	"fmt"
)

// Result holds all the answers from the interactive wizard.
type Result struct {
	// Connection
	Host       string
	SSHPort    string
	SSHKeyPath string
	LoginUser  string

	// Target identity
	ServerHostname string
	UserName       string
	Password       string

	// Features
	SSLEnabled        bool
	SSLEmail          string
	UseWWW            bool
	CloudflareEnabled bool
	PostgresEnabled   bool

	// SelectedTasks is empty when every task should run.
	SelectedTasks []string
}

// Run runs the interactive configuration wizard.
// The context is used for cancellation support (e.g., Ctrl+C).
func Run(ctx context.Context) (*Result, error) {
	result := &Result{
		SSHPort:    "22",
		LoginUser:  "root",
		SSLEnabled: true,
	}

	if err := runConnectionGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("connection: %w", err)
	}

	if err := runIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("identity: %w", err)
	}

	if err := runFeaturesGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}

	// Only ask for a contact address when certificates will be requested
	if result.SSLEnabled {
		if err := runSSLGroup(ctx, result); err != nil {
			return nil, fmt.Errorf("ssl: %w", err)
		}
	}

	if err := runTasksGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("tasks: %w", err)
	}

	return result, nil
}
