package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/hostforge/internal/provisioning"
)

var firewallDescriptor = provisioning.Descriptor{
	Name:        NameFirewall,
	Description: "Configure UFW firewall",
	DependsOn:   []string{NamePackages},
}

// Firewall resets UFW to deny incoming traffic except SSH, HTTP and HTTPS.
type Firewall struct {
	provisioning.Base
}

func newFirewall(deps provisioning.Deps) provisioning.Task {
	return &Firewall{Base: provisioning.NewBase(firewallDescriptor, deps)}
}

// Rules returns the allow rules in the order they are applied.
func (t *Firewall) Rules() []string {
	return []string{fmt.Sprintf("%d/tcp", t.Config.SSHPort), "80/tcp", "443/tcp"}
}

// Run implements provisioning.Task.
func (t *Firewall) Run(ctx context.Context) error {
	commands := []string{
		"ufw --force reset",
		"ufw default deny incoming",
		"ufw default allow outgoing",
	}
	for _, rule := range t.Rules() {
		commands = append(commands, "ufw allow "+rule)
	}
	commands = append(commands, "ufw --force enable")
	return t.SudoAll(ctx, commands...)
}

// PostRun checks that UFW reports itself active.
func (t *Firewall) PostRun(ctx context.Context) error {
	const command = "ufw status"
	res := t.Remote.Execute(ctx, command, true)
	if !res.OK() {
		return &provisioning.CommandError{Command: command, Result: res}
	}
	if !strings.Contains(res.Stdout, "Status: active") {
		return fmt.Errorf("firewall is not active after enable: %s", strings.TrimSpace(res.Stdout))
	}
	t.Observer.Printf("%s", strings.TrimSpace(res.Stdout))
	return nil
}
