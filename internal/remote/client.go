package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Result is the outcome of one remote command. ExitCode 0 is success.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// OK reports whether the command exited zero.
func (r Result) OK() bool { return r.ExitCode == 0 }

// Output returns stdout and stderr joined, for error messages.
func (r Result) Output() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}

// Client is the connection surface a Session drives. The production
// implementation wraps *ssh.Client; tests substitute fakes.
type Client interface {
	// Run executes command in a PTY. A non-zero exit is reported through
	// Result.ExitCode with a nil error; the error covers transport failures.
	Run(ctx context.Context, command string) (Result, error)
	// Files opens the SFTP subsystem on the connection.
	Files() (FileClient, error)
	Close() error
}

// FileClient is the remote filesystem surface used for transfers.
type FileClient interface {
	Create(path string) (io.WriteCloser, error)
	Open(path string) (io.ReadCloser, error)
	Stat(path string) (os.FileInfo, error)
	Close() error
}

// Dialer opens an authenticated connection to addr.
type Dialer func(ctx context.Context, addr string, config *ssh.ClientConfig) (Client, error)

// DialSSH is the default Dialer. It bounds the TCP connect and the SSH
// handshake by config.Timeout.
func DialSSH(ctx context.Context, addr string, config *ssh.ClientConfig) (Client, error) {
	d := net.Dialer{Timeout: config.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &sshClient{client: ssh.NewClient(c, chans, reqs)}, nil
}

type sshClient struct {
	client *ssh.Client
}

// ptyModes disables echo so command output is not polluted by the input.
var ptyModes = ssh.TerminalModes{
	ssh.ECHO:          0,
	ssh.TTY_OP_ISPEED: 14400,
	ssh.TTY_OP_OSPEED: 14400,
}

func (c *sshClient) Run(ctx context.Context, command string) (Result, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return Result{}, fmt.Errorf("failed to create SSH session: %w", err)
	}
	defer func() { _ = session.Close() }()

	// Some installers refuse to run without a terminal.
	if err := session.RequestPty("xterm", 40, 200, ptyModes); err != nil {
		return Result{}, fmt.Errorf("failed to request pty: %w", err)
	}

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return Result{}, ctx.Err()
	case err := <-done:
		res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
		if err == nil {
			return res, nil
		}
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitStatus()
			if res.ExitCode == 0 {
				// Killed by a signal without an exit status.
				res.ExitCode = -1
			}
			return res, nil
		}
		return res, err
	}
}

func (c *sshClient) Files() (FileClient, error) {
	client, err := sftp.NewClient(c.client)
	if err != nil {
		return nil, err
	}
	return &sftpFiles{client: client}, nil
}

func (c *sshClient) Close() error {
	return c.client.Close()
}

type sftpFiles struct {
	client *sftp.Client
}

func (f *sftpFiles) Create(path string) (io.WriteCloser, error) { return f.client.Create(path) }

func (f *sftpFiles) Open(path string) (io.ReadCloser, error) { return f.client.Open(path) }

func (f *sftpFiles) Stat(path string) (os.FileInfo, error) { return f.client.Stat(path) }

func (f *sftpFiles) Close() error { return f.client.Close() }
