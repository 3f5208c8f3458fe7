package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/hostforge/internal/provisioning"
)

var databaseDescriptor = provisioning.Descriptor{
	Name:        NameDatabase,
	Description: "Set up PostgreSQL database and role",
	DependsOn:   []string{NamePackages, NameUser},
	EnabledWhen: postgresEnabled,
}

// Database creates a superuser role and a database owned by it, both named
// after the application user.
type Database struct {
	provisioning.Base
}

func newDatabase(deps provisioning.Deps) provisioning.Task {
	return &Database{Base: provisioning.NewBase(databaseDescriptor, deps)}
}

// PreRun installs PostgreSQL if missing and makes sure the service is active.
func (t *Database) PreRun(ctx context.Context) error {
	if !t.Probe(ctx, bash("command -v psql")) {
		t.Observer.Printf("PostgreSQL is not installed, installing")
		if err := t.SudoAll(ctx, aptUpdate(), aptInstall("postgresql", "postgresql-contrib")); err != nil {
			return err
		}
	}

	if t.active(ctx) {
		return nil
	}
	if err := t.Sudo(ctx, "systemctl start postgresql"); err != nil {
		return err
	}
	if !t.active(ctx) {
		return fmt.Errorf("postgresql service failed to start")
	}
	return nil
}

func (t *Database) active(ctx context.Context) bool {
	res := t.Remote.Execute(ctx, "systemctl is-active postgresql", true)
	return res.OK() && strings.TrimSpace(res.Stdout) == "active"
}

// Run implements provisioning.Task.
func (t *Database) Run(ctx context.Context) error {
	if err := t.Sudo(ctx, psql("SELECT 1")); err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	role := sqlIdent(t.Config.UserName)
	password := sqlLiteral(t.Config.Password)

	verb := "CREATE"
	if t.exists(ctx, "SELECT 1 FROM pg_roles WHERE rolname = "+sqlLiteral(t.Config.UserName)) {
		verb = "ALTER"
	}
	statement := fmt.Sprintf("%s ROLE %s WITH LOGIN SUPERUSER PASSWORD %s", verb, role, password)
	if err := t.SudoSecret(ctx, psql(statement), t.Config.Password); err != nil {
		return err
	}

	if !t.exists(ctx, "SELECT 1 FROM pg_database WHERE datname = "+sqlLiteral(t.Config.UserName)) {
		if err := t.Sudo(ctx, psql(fmt.Sprintf("CREATE DATABASE %s OWNER %s", role, role))); err != nil {
			return err
		}
	}
	return t.Sudo(ctx, psql(fmt.Sprintf("GRANT ALL PRIVILEGES ON DATABASE %s TO %s", role, role)))
}

func (t *Database) exists(ctx context.Context, query string) bool {
	res := t.Remote.Execute(ctx, psql(query), true)
	return res.OK() && strings.TrimSpace(res.Stdout) == "1"
}
