package tasks

import (
	"context"
	"strings"

	"github.com/imamik/hostforge/internal/provisioning"
)

var packagesDescriptor = provisioning.Descriptor{
	Name:        NamePackages,
	Description: "Install essential packages",
}

var (
	essentialPackages = []string{
		"build-essential",
		"python3-dev",
		"libjpeg8-dev",
		"libzip-dev",
		"libffi-dev",
		"libxslt1-dev",
		"python3-pip",
		"python3-venv",
		"git",
		"redis-server",
		"nginx",
	}
	postgresPackages = []string{"libpq-dev", "postgresql", "postgresql-contrib"}
)

// Packages installs the system packages every other task relies on.
type Packages struct {
	provisioning.Base
}

func newPackages(deps provisioning.Deps) provisioning.Task {
	return &Packages{Base: provisioning.NewBase(packagesDescriptor, deps)}
}

// List returns the package list for the current configuration.
func (t *Packages) List() []string {
	pkgs := append([]string(nil), essentialPackages...)
	if t.Config.PostgresEnabled {
		pkgs = append(pkgs, postgresPackages...)
	}
	return pkgs
}

// Run implements provisioning.Task.
func (t *Packages) Run(ctx context.Context) error {
	t.Observer.Printf("Updating apt cache and installing %d packages", len(t.List()))
	if err := t.SudoAll(ctx, aptUpdate(), aptInstall(t.List()...)); err != nil {
		return err
	}
	if !t.Config.PostgresEnabled {
		return nil
	}
	return t.SudoAll(ctx, "systemctl enable postgresql", "systemctl start postgresql")
}

// PostRun warns when PostgreSQL was installed but is not active.
func (t *Packages) PostRun(ctx context.Context) error {
	if !t.Config.PostgresEnabled {
		return nil
	}
	res := t.Remote.Execute(ctx, "systemctl is-active postgresql", true)
	if !res.OK() || strings.TrimSpace(res.Stdout) != "active" {
		t.Observer.Printf("PostgreSQL may not be running correctly, continuing")
	}
	return nil
}
