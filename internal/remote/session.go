package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/imamik/hostforge/internal/observability"
	"github.com/imamik/hostforge/internal/retry"
)

const (
	defaultPort            = 22
	defaultDialTimeout     = 10 * time.Second
	defaultPrivilegePrefix = "sudo "
	defaultRetryDelay      = 2 * time.Second
	maxRetryDelay          = 30 * time.Second
)

// Config holds the session connection settings.
type Config struct {
	Host string
	Port int
	User string

	// Password authenticates when KeyPath is empty.
	Password string
	// KeyPath selects private key authentication. A leading ~ is expanded.
	KeyPath string
	// Passphrase decrypts an encrypted private key.
	Passphrase string

	// KnownHostsPath enables strict host key checking against the file.
	// If empty, host keys are accepted unverified, matching first contact
	// with a freshly installed server.
	KnownHostsPath string

	// DialTimeout bounds connect and handshake.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// CommandTimeout bounds a single remote command. Zero disables it.
	CommandTimeout time.Duration

	// ConnectRetries is how many times a failed dial is retried before
	// Connect gives up. Authentication and host key failures are not retried.
	ConnectRetries int
	// RetryDelay is the wait before the first retry; it doubles afterwards.
	// If zero, defaultRetryDelay is used.
	RetryDelay time.Duration

	// Secrets are masked in every command and output reported to the
	// observer. Password is always masked.
	Secrets []string

	// PrivilegePrefix is prepended to privileged commands.
	// If empty, "sudo " is used.
	PrivilegePrefix string
}

// Option configures a Session.
type Option func(*Session)

// WithDialer replaces the SSH dialer.
func WithDialer(d Dialer) Option {
	return func(s *Session) { s.dial = d }
}

// WithFs sets the local filesystem used for keys and transfers.
func WithFs(fs afero.Fs) Option {
	return func(s *Session) { s.fs = fs }
}

// WithObserver sets the observer receiving connection, command and transfer events.
func WithObserver(o observability.Observer) Option {
	return func(s *Session) { s.observer = o }
}

// Session is a stateful remote session. The zero value is not usable; use NewSession.
type Session struct {
	config   Config
	dial     Dialer
	fs       afero.Fs
	observer observability.Observer

	client Client
	files  FileClient
}

// NewSession validates cfg and returns a disconnected Session.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if cfg.KeyPath == "" && cfg.Password == "" {
		return nil, fmt.Errorf("config needs a password or a key path")
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.PrivilegePrefix == "" {
		cfg.PrivilegePrefix = defaultPrivilegePrefix
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	s := &Session{
		config:   cfg,
		dial:     DialSSH,
		fs:       afero.NewOsFs(),
		observer: observability.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Addr returns host:port.
func (s *Session) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Connected reports whether the session holds a live connection.
func (s *Session) Connected() bool {
	return s.client != nil
}

// Connect opens the connection. It is a no-op when already connected.
// Failures leave the session disconnected and return a *ConnectionError.
func (s *Session) Connect(ctx context.Context) error {
	if s.client != nil {
		return nil
	}

	clientConfig, err := s.clientConfig()
	if err != nil {
		return s.connectFailed(err)
	}

	policy := retry.Policy{
		Attempts: s.config.ConnectRetries + 1,
		Delay:    s.config.RetryDelay,
		MaxDelay: maxRetryDelay,
	}
	err = retry.Do(ctx, policy, func(attempt int) error {
		client, err := s.dial(ctx, s.Addr(), clientConfig)
		if err != nil {
			if !retryableDialError(err) {
				return retry.Permanent(err)
			}
			if attempt < policy.Attempts {
				s.observer.Printf("Connecting to %s failed (attempt %d of %d): %v", s.Addr(), attempt, policy.Attempts, err)
			}
			return err
		}
		s.client = client
		return nil
	})
	if err != nil {
		return s.connectFailed(err)
	}

	s.observer.Event(observability.Event{
		Type:     observability.EventConnectionEstablished,
		Resource: s.Addr(),
		Message:  fmt.Sprintf("connected as %s", s.config.User),
	})
	return nil
}

// retryableDialError reports whether a dial failure may go away on its own,
// such as a server that is still booting.
func retryableDialError(err error) bool {
	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) {
		return false
	}
	return !strings.Contains(err.Error(), "unable to authenticate")
}

func (s *Session) connectFailed(err error) error {
	connErr := &ConnectionError{Addr: s.Addr(), Err: err}
	s.observer.Event(observability.Event{
		Type:     observability.EventConnectionFailed,
		Resource: s.Addr(),
		Message:  err.Error(),
	})
	return connErr
}

func (s *Session) clientConfig() (*ssh.ClientConfig, error) {
	auth, err := s.authMethods()
	if err != nil {
		return nil, err
	}
	hostKeyCallback, err := s.hostKeyCallback()
	if err != nil {
		return nil, err
	}
	return &ssh.ClientConfig{
		User:            s.config.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         s.config.DialTimeout,
	}, nil
}

// Disconnect closes the connection. It is a no-op when disconnected.
func (s *Session) Disconnect() error {
	if s.client == nil {
		return nil
	}

	var result *multierror.Error
	if s.files != nil {
		result = multierror.Append(result, s.files.Close())
		s.files = nil
	}
	result = multierror.Append(result, s.client.Close())
	s.client = nil

	s.observer.Event(observability.Event{
		Type:     observability.EventConnectionClosed,
		Resource: s.Addr(),
		Message:  "disconnected",
	})
	return result.ErrorOrNil()
}

// Execute runs command on the remote host. When privileged is true the
// privilege prefix is prepended unless command already starts with it.
//
// Execute never returns an error: a session that cannot connect yields a
// synthetic Result with ExitCode -1 and the cause in Stderr.
func (s *Session) Execute(ctx context.Context, command string, privileged bool) Result {
	if err := s.Connect(ctx); err != nil {
		return Result{ExitCode: -1, Stderr: fmt.Sprintf("not connected to server: %v", err)}
	}

	if privileged {
		command = withPrivilege(command, s.config.PrivilegePrefix)
	}
	observability.LogCommand(s.observer, s.config.Host, s.mask(command))

	if s.config.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.CommandTimeout)
		defer cancel()
	}

	res, err := s.client.Run(ctx, command)
	if err != nil {
		res = Result{ExitCode: -1, Stdout: res.Stdout, Stderr: strings.TrimSpace(res.Stderr + "\n" + err.Error())}
	}
	if !res.OK() {
		observability.LogCommandFailed(s.observer, s.config.Host, s.mask(command), res.ExitCode, s.mask(res.Stderr))
	}
	return res
}

func (s *Session) mask(text string) string {
	return observability.Mask(text, append([]string{s.config.Password}, s.config.Secrets...)...)
}

// withPrivilege prepends prefix unless command already carries it.
func withPrivilege(command, prefix string) string {
	trimmed := strings.TrimLeft(command, " ")
	if strings.HasPrefix(trimmed, prefix) {
		return command
	}
	return prefix + command
}
