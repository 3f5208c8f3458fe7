package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/imamik/hostforge/internal/observability"
)

// fileClient returns the SFTP client, opening it on first use.
func (s *Session) fileClient(ctx context.Context) (FileClient, error) {
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}
	if s.files != nil {
		return s.files, nil
	}
	files, err := s.client.Files()
	if err != nil {
		return nil, fmt.Errorf("failed to open sftp: %w", err)
	}
	s.files = files
	return files, nil
}

// Upload copies the local file to remotePath.
func (s *Session) Upload(ctx context.Context, localPath, remotePath string) error {
	if err := s.upload(ctx, localPath, remotePath); err != nil {
		transferErr := &TransferError{Op: "upload", Path: remotePath, Err: err}
		observability.LogTransferFailed(s.observer, "upload", remotePath, err)
		return transferErr
	}
	observability.LogTransfer(s.observer, "upload", localPath, remotePath)
	return nil
}

func (s *Session) upload(ctx context.Context, localPath, remotePath string) error {
	files, err := s.fileClient(ctx)
	if err != nil {
		return err
	}

	src, err := s.fs.Open(localPath)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := files.Create(remotePath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

// Download copies remotePath to the local file.
func (s *Session) Download(ctx context.Context, remotePath, localPath string) error {
	if err := s.download(ctx, remotePath, localPath); err != nil {
		transferErr := &TransferError{Op: "download", Path: remotePath, Err: err}
		observability.LogTransferFailed(s.observer, "download", remotePath, err)
		return transferErr
	}
	observability.LogTransfer(s.observer, "download", localPath, remotePath)
	return nil
}

func (s *Session) download(ctx context.Context, remotePath, localPath string) error {
	files, err := s.fileClient(ctx)
	if err != nil {
		return err
	}

	src, err := files.Open(remotePath)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := s.fs.Create(localPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

// FileExists reports whether remotePath exists. A missing path is a normal
// false; any other failure also yields false but is reported to the
// observer as a transfer.failed event.
func (s *Session) FileExists(ctx context.Context, remotePath string) bool {
	files, err := s.fileClient(ctx)
	if err != nil {
		observability.LogTransferFailed(s.observer, "stat", remotePath, err)
		return false
	}

	if _, err := files.Stat(remotePath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			observability.LogTransferFailed(s.observer, "stat", remotePath, err)
		}
		return false
	}
	return true
}
