package tasks

import (
	"context"
	"fmt"

	"github.com/alessio/shellescape"

	"github.com/imamik/hostforge/internal/provisioning"
)

var serviceDescriptor = provisioning.Descriptor{
	Name:        NameService,
	Description: "Configure systemd services for the application",
	DependsOn:   []string{NameApp},
}

// Service installs and starts the application and worker systemd units.
type Service struct {
	provisioning.Base
}

func newService(deps provisioning.Deps) provisioning.Task {
	return &Service{Base: provisioning.NewBase(serviceDescriptor, deps)}
}

// Units maps template names to the systemd unit names they are installed as.
func (t *Service) Units() [][2]string {
	return [][2]string{
		{"app.service", t.Config.UserName + "-app"},
		{"worker.service", t.Config.UserName + "-worker"},
	}
}

// Run implements provisioning.Task.
func (t *Service) Run(ctx context.Context) error {
	for _, u := range t.Units() {
		template, unit := u[0], u[1]
		dest := fmt.Sprintf("/etc/systemd/system/%s.service", unit)
		if err := t.Install(ctx, template, dest, "644", nil); err != nil {
			return err
		}
		if err := t.Sudo(ctx, "systemctl enable "+shellescape.Quote(unit)); err != nil {
			return err
		}
	}

	if err := t.Sudo(ctx, "systemctl daemon-reload"); err != nil {
		return err
	}
	for _, u := range t.Units() {
		if err := t.Sudo(ctx, "systemctl start "+shellescape.Quote(u[1])); err != nil {
			return err
		}
	}
	return t.Sudo(ctx, "systemctl restart nginx")
}
