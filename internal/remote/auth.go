package remote

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// authMethods selects key authentication when a key path is configured and
// password authentication otherwise.
func (s *Session) authMethods() ([]ssh.AuthMethod, error) {
	if s.config.KeyPath == "" {
		return []ssh.AuthMethod{ssh.Password(s.config.Password)}, nil
	}

	path, err := expandHome(s.config.KeyPath)
	if err != nil {
		return nil, err
	}
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to check ssh key %s: %w", path, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, path)
	}

	signer, err := loadSigner(s.fs, path, s.config.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("load key: %w", err)
	}
	return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
}

func (s *Session) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if s.config.KnownHostsPath == "" {
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // first contact with a fresh server
	}
	path, err := expandHome(s.config.KnownHostsPath)
	if err != nil {
		return nil, err
	}
	cb, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("known_hosts: %w", err)
	}
	return cb, nil
}

// loadSigner loads a private key with optional passphrase.
func loadSigner(fs afero.Fs, path, passphrase string) (ssh.Signer, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	if passphrase != "" {
		return ssh.ParsePrivateKeyWithPassphrase(b, []byte(passphrase))
	}
	signer, err := ssh.ParsePrivateKey(b)
	if err == nil {
		return signer, nil
	}
	var passphraseMissingError *ssh.PassphraseMissingError
	if errors.As(err, &passphraseMissingError) {
		return nil, fmt.Errorf("private key %s is encrypted; provide a passphrase", path)
	}
	return nil, err
}

// userHomeDir is replaced in tests.
var userHomeDir = os.UserHomeDir

// expandHome expands a leading ~ to the current user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
