package provisioning

import (
	"context"
	"fmt"
	"path"

	"github.com/alessio/shellescape"

	"github.com/imamik/hostforge/internal/observability"
	"github.com/imamik/hostforge/internal/remote"
)

// Base implements the descriptor accessors and no-op PreRun and PostRun.
// Concrete tasks embed it and implement Run.
type Base struct {
	Deps
	desc Descriptor
}

// NewBase binds a descriptor to the injected collaborators.
func NewBase(desc Descriptor, deps Deps) Base {
	return Base{Deps: deps, desc: desc}
}

// Name implements Task.
func (b *Base) Name() string { return b.desc.Name }

// Description implements Task.
func (b *Base) Description() string { return b.desc.Description }

// DependsOn implements Task.
func (b *Base) DependsOn() []string { return append([]string(nil), b.desc.DependsOn...) }

// PreRun implements Task as a no-op.
func (b *Base) PreRun(context.Context) error { return nil }

// PostRun implements Task as a no-op.
func (b *Base) PostRun(context.Context) error { return nil }

// Sudo runs a privileged command and converts a non-zero exit into a *CommandError.
func (b *Base) Sudo(ctx context.Context, command string) error {
	return b.check(command, b.Remote.Execute(ctx, command, true))
}

// Shell runs an unprivileged command and converts a non-zero exit into a *CommandError.
func (b *Base) Shell(ctx context.Context, command string) error {
	return b.check(command, b.Remote.Execute(ctx, command, false))
}

// SudoSecret runs a privileged command that embeds secrets. A failure is
// reported with every secret masked in the command and its output.
func (b *Base) SudoSecret(ctx context.Context, command string, secrets ...string) error {
	res := b.Remote.Execute(ctx, command, true)
	if res.OK() {
		return nil
	}
	res.Stdout = observability.Mask(res.Stdout, secrets...)
	res.Stderr = observability.Mask(res.Stderr, secrets...)
	return &CommandError{Command: observability.Mask(command, secrets...), Result: res}
}

// SudoAll runs privileged commands in order and stops at the first failure.
func (b *Base) SudoAll(ctx context.Context, commands ...string) error {
	for _, command := range commands {
		if err := b.Sudo(ctx, command); err != nil {
			return err
		}
	}
	return nil
}

// Probe runs a privileged command and reports whether it exited zero.
// It is meant for "does this already exist" checks whose failure is not an error.
func (b *Base) Probe(ctx context.Context, command string) bool {
	return b.Remote.Execute(ctx, command, true).OK()
}

func (b *Base) check(command string, res remote.Result) error {
	if !res.OK() {
		return &CommandError{Command: command, Result: res}
	}
	return nil
}

// Install renders template, uploads it through /tmp and moves it to dest
// with the given octal mode.
func (b *Base) Install(ctx context.Context, template, dest, mode string, extra map[string]interface{}) error {
	local, err := b.Renderer.RenderToFile(template, "", extra)
	if err != nil {
		return err
	}
	defer func() { _ = b.Renderer.Remove(local) }()

	staging := path.Join("/tmp", path.Base(dest))
	if err := b.Remote.Upload(ctx, local, staging); err != nil {
		return err
	}
	return b.SudoAll(ctx,
		fmt.Sprintf("mv %s %s", shellescape.Quote(staging), shellescape.Quote(dest)),
		fmt.Sprintf("chmod %s %s", mode, shellescape.Quote(dest)),
	)
}
