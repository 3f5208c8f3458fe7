package remote

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is wrapped when the configured private key file does not exist.
var ErrKeyNotFound = errors.New("ssh key file not found")

// ConnectionError reports an unreachable host, rejected authentication or
// unusable credentials. It is fatal to a run.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TransferError reports a failed upload, download or remote stat.
type TransferError struct {
	Op   string // upload, download or stat
	Path string // remote path
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
