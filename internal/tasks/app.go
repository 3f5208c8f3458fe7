package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/imamik/hostforge/internal/provisioning"
)

var appDescriptor = provisioning.Descriptor{
	Name:        NameApp,
	Description: "Download and set up the application",
	DependsOn:   []string{NameUser, NamePackages, NamePython},
}

// App checks out the application repository into the app directory, runs
// its setup script and initializes its database.
type App struct {
	provisioning.Base
}

func newApp(deps provisioning.Deps) provisioning.Task {
	return &App{Base: provisioning.NewBase(appDescriptor, deps)}
}

// PreRun creates an empty app directory owned by the application user.
func (t *App) PreRun(ctx context.Context) error {
	dir := shellescape.Quote(t.Config.AppDir())
	user := t.Config.UserName

	err := t.SudoAll(ctx,
		"mkdir -p "+dir,
		fmt.Sprintf("chown -R %s %s", shellescape.Quote(user+":"+user), dir),
	)
	if err != nil {
		return err
	}

	res := t.Remote.Execute(ctx, asUser(user, "ls -A "+dir+" | wc -l"), true)
	if res.OK() && strings.TrimSpace(res.Stdout) != "0" {
		t.Observer.Printf("Directory %s is not empty, cleaning before clone", t.Config.AppDir())
		return t.Sudo(ctx, asUser(user, "find "+dir+" -mindepth 1 -delete"))
	}
	return nil
}

// Run implements provisioning.Task.
func (t *App) Run(ctx context.Context) error {
	dir := shellescape.Quote(t.Config.AppDir())
	user := t.Config.UserName

	clone := fmt.Sprintf("cd %s && git clone %s .", dir, shellescape.Quote(t.Config.AppRepo))
	if err := t.Sudo(ctx, asUser(user, clone)); err != nil {
		return fmt.Errorf("failed to clone %s: %w", t.Config.AppRepo, err)
	}

	if err := t.Sudo(ctx, asUser(user, "cd "+dir+" && ./setup.sh")); err != nil {
		return fmt.Errorf("setup script failed: %w", err)
	}

	if t.Config.PostgresEnabled {
		t.Observer.Printf("PostgreSQL is enabled, update %s/.env to use it", t.Config.AppDir())
	}
	return nil
}

// PostRun initializes the application database. Failure is reported but not fatal.
func (t *App) PostRun(ctx context.Context) error {
	dir := shellescape.Quote(t.Config.AppDir())
	user := t.Config.UserName

	err := t.Sudo(ctx, asUser(user, "cd "+dir+" && source env/bin/activate && flask create-db"))
	if err == nil {
		return nil
	}
	err = t.Sudo(ctx, asUser(user, "cd "+dir+" && source env/bin/activate && FLASK_APP=run.py flask create-db"))
	if err != nil {
		t.Observer.Printf("Database initialization failed, run it manually: cd %s && source env/bin/activate && flask create-db", t.Config.AppDir())
	}
	return nil
}
