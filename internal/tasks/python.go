package tasks

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/imamik/hostforge/internal/provisioning"
)

var pythonDescriptor = provisioning.Descriptor{
	Name:        NamePython,
	Description: "Install Python 3.13 (or keep 3.9+ if present)",
	DependsOn:   []string{NamePackages},
}

const (
	preferredPythonMinor = 13
	fallbackPythonMinor  = 9
)

var pythonVersionRe = regexp.MustCompile(`Python 3\.(\d+)`)

// Python makes sure a modern python3 is the system default, installing one
// from the deadsnakes PPA when the distribution ships an older release.
type Python struct {
	provisioning.Base

	// installed is the minor version installed by Run, zero when none was needed.
	installed int
}

func newPython(deps provisioning.Deps) provisioning.Task {
	return &Python{Base: provisioning.NewBase(pythonDescriptor, deps)}
}

// pythonMinor extracts the 3.x minor version from `python3 --version` output.
func pythonMinor(output string) (int, bool) {
	m := pythonVersionRe.FindStringSubmatch(output)
	if m == nil {
		return 0, false
	}
	minor, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return minor, true
}

// Run implements provisioning.Task.
func (t *Python) Run(ctx context.Context) error {
	res := t.Remote.Execute(ctx, "python3 --version", false)
	if minor, ok := pythonMinor(res.Output()); res.OK() && ok && minor >= fallbackPythonMinor {
		t.Observer.Printf("Python 3.%d is already installed", minor)
		return nil
	}

	err := t.SudoAll(ctx,
		aptUpdate(),
		aptInstall("software-properties-common"),
		"add-apt-repository -y ppa:deadsnakes/ppa",
		aptUpdate(),
	)
	if err != nil {
		return err
	}

	t.installed = preferredPythonMinor
	if err := t.Sudo(ctx, aptInstall(fmt.Sprintf("python3.%d-full", preferredPythonMinor))); err != nil {
		t.Observer.Printf("Failed to install Python 3.%d, falling back to 3.%d", preferredPythonMinor, fallbackPythonMinor)
		t.installed = fallbackPythonMinor
		if err := t.Sudo(ctx, aptInstall(fmt.Sprintf("python3.%d-full", fallbackPythonMinor))); err != nil {
			return err
		}
	}

	bin := fmt.Sprintf("python3.%d", t.installed)
	if err := t.Sudo(ctx, bin+" -m ensurepip --upgrade"); err != nil {
		t.Observer.Printf("ensurepip failed for %s, trying apt: %v", bin, err)
		if err := t.Sudo(ctx, aptInstall(bin+"-pip")); err != nil {
			t.Observer.Printf("Failed to install pip for %s", bin)
		}
	} else {
		_ = t.Sudo(ctx, bin+" -m pip install --upgrade pip")
	}

	if err := t.Sudo(ctx, fmt.Sprintf("update-alternatives --install /usr/bin/python3 python3 /usr/bin/%s 1", bin)); err != nil {
		t.Observer.Printf("Failed to set %s as the default python3", bin)
	}
	return nil
}

// PostRun verifies the installed interpreter.
func (t *Python) PostRun(ctx context.Context) error {
	if t.installed == 0 {
		return nil
	}
	command := fmt.Sprintf("python3.%d --version", t.installed)
	res := t.Remote.Execute(ctx, command, false)
	if !res.OK() {
		return &provisioning.CommandError{Command: command, Result: res}
	}
	t.Observer.Printf("Installed %s", strings.TrimSpace(res.Output()))
	return nil
}
