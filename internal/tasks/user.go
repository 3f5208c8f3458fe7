package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alessio/shellescape"
	"github.com/spf13/afero"

	"github.com/imamik/hostforge/internal/provisioning"
)

var userDescriptor = provisioning.Descriptor{
	Name:        NameUser,
	Description: "Create user account with sudo privileges",
}

// localFs is where the public key to authorize is looked up.
var localFs = afero.NewOsFs()

// User creates the application account, authorizes the local public key and
// grants passwordless sudo.
type User struct {
	provisioning.Base
}

func newUser(deps provisioning.Deps) provisioning.Task {
	return &User{Base: provisioning.NewBase(userDescriptor, deps)}
}

// Run implements provisioning.Task.
func (t *User) Run(ctx context.Context) error {
	name := shellescape.Quote(t.Config.UserName)
	credentials := shellescape.Quote(t.Config.UserName + ":" + t.Config.Password)

	err := t.SudoAll(ctx,
		"groupadd -f "+name,
		bash(fmt.Sprintf("id -u %s >/dev/null 2>&1 || useradd -m -s /bin/bash -g %s -G sudo %s", name, name, name)),
	)
	if err != nil {
		return err
	}
	if err := t.SudoSecret(ctx, bash("echo "+credentials+" | chpasswd"), t.Config.Password); err != nil {
		return err
	}
	if err := t.authorizeKey(ctx); err != nil {
		return err
	}
	return t.grantSudo(ctx)
}

// PublicKeyPath returns the local public key that will be authorized.
func (t *User) PublicKeyPath() string {
	if t.Config.UsesKeyAuth() {
		return t.Config.SSHKeyPath + ".pub"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ssh", "id_rsa.pub")
}

func (t *User) authorizeKey(ctx context.Context) error {
	local := t.PublicKeyPath()
	if ok, _ := afero.Exists(localFs, local); local == "" || !ok {
		t.Observer.Printf("No public key at %s, skipping SSH key setup", local)
		return nil
	}

	user := t.Config.UserName
	sshDir := fmt.Sprintf("/home/%s/.ssh", user)
	authorized := sshDir + "/authorized_keys"
	staging := "/tmp/authorized_keys." + user

	if err := t.Remote.Upload(ctx, local, staging); err != nil {
		return err
	}
	return t.SudoAll(ctx,
		"mkdir -p "+shellescape.Quote(sshDir),
		fmt.Sprintf("mv %s %s", shellescape.Quote(staging), shellescape.Quote(authorized)),
		"chmod 700 "+shellescape.Quote(sshDir),
		"chmod 600 "+shellescape.Quote(authorized),
		fmt.Sprintf("chown -R %s %s", shellescape.Quote(user+":"+user), shellescape.Quote(sshDir)),
	)
}

func (t *User) grantSudo(ctx context.Context) error {
	sudoers := shellescape.Quote("/etc/sudoers.d/" + t.Config.UserName)
	rule := t.Config.UserName + " ALL=(ALL) NOPASSWD:ALL"

	err := t.SudoAll(ctx,
		"mkdir -p /etc/sudoers.d",
		bash("grep -q '^#includedir /etc/sudoers.d' /etc/sudoers || echo '#includedir /etc/sudoers.d' >> /etc/sudoers"),
		bash("echo "+shellescape.Quote(rule)+" > "+sudoers),
		"chmod 0440 "+sudoers,
	)
	if err != nil {
		return err
	}

	if err := t.Sudo(ctx, "visudo -cf "+sudoers); err != nil {
		_ = t.Sudo(ctx, "rm -f "+sudoers)
		return fmt.Errorf("invalid sudoers file %s: %w", sudoers, err)
	}
	return nil
}
