package tasks

import (
	"fmt"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/provisioning"
)

// Task names.
const (
	NamePackages   = "packages"
	NameUser       = "user"
	NameFirewall   = "firewall"
	NamePython     = "python"
	NameDatabase   = "database"
	NameApp        = "app"
	NameService    = "service"
	NameNginxBasic = "nginx_basic"
	NameNginxSSL   = "nginx_ssl"
	NameNginxWWW   = "nginx_www"
)

type builtin struct {
	desc    provisioning.Descriptor
	factory provisioning.Factory
}

func builtins() []builtin {
	return []builtin{
		{packagesDescriptor, newPackages},
		{userDescriptor, newUser},
		{firewallDescriptor, newFirewall},
		{pythonDescriptor, newPython},
		{databaseDescriptor, newDatabase},
		{appDescriptor, newApp},
		{serviceDescriptor, newService},
		{nginxBasicDescriptor, newNginxBasic},
		{nginxSSLDescriptor, newNginxSSL},
		{nginxWWWDescriptor, newNginxWWW},
	}
}

// Register adds every built-in task to reg.
func Register(reg *provisioning.Registry) error {
	for _, b := range builtins() {
		if err := reg.Register(b.desc, b.factory); err != nil {
			return fmt.Errorf("failed to register built-in tasks: %w", err)
		}
	}
	return nil
}

// NewRegistry returns a registry holding every built-in task.
func NewRegistry() (*provisioning.Registry, error) {
	reg := provisioning.NewRegistry()
	if err := Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func postgresEnabled(cfg *config.Config) bool {
	return cfg.PostgresEnabled
}
