package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostforge/internal/observability"
)

func TestSession_Upload(t *testing.T) {
	local := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(local, "/tmp/site.conf", []byte("server {}"), 0644))
	client := newFakeClient()
	s, dials, rec := newTestSession(t, client, WithFs(local))

	require.NoError(t, s.Upload(context.Background(), "/tmp/site.conf", "/tmp/remote.conf"))

	content, err := afero.ReadFile(client.files.fs, "/tmp/remote.conf")
	require.NoError(t, err)
	assert.Equal(t, "server {}", string(content))
	assert.Equal(t, 1, *dials)
	assert.Equal(t, 1, rec.count(observability.EventTransferCompleted))
}

func TestSession_UploadMissingLocalFile(t *testing.T) {
	s, _, rec := newTestSession(t, newFakeClient())

	err := s.Upload(context.Background(), "/tmp/nope", "/tmp/remote.conf")

	var transferErr *TransferError
	require.ErrorAs(t, err, &transferErr)
	assert.Equal(t, "upload", transferErr.Op)
	assert.Equal(t, "/tmp/remote.conf", transferErr.Path)
	assert.Equal(t, 1, rec.count(observability.EventTransferFailed))
}

func TestSession_UploadSFTPUnavailable(t *testing.T) {
	client := newFakeClient()
	client.filesErr = errors.New("subsystem request failed")
	s, _, _ := newTestSession(t, client)

	err := s.Upload(context.Background(), "/tmp/a", "/tmp/b")

	var transferErr *TransferError
	require.ErrorAs(t, err, &transferErr)
	assert.Contains(t, err.Error(), "subsystem request failed")
}

func TestSession_Download(t *testing.T) {
	local := afero.NewMemMapFs()
	client := newFakeClient()
	require.NoError(t, afero.WriteFile(client.files.fs, "/etc/hostname", []byte("web-1\n"), 0644))
	s, _, _ := newTestSession(t, client, WithFs(local))

	require.NoError(t, s.Download(context.Background(), "/etc/hostname", "/tmp/hostname"))

	content, err := afero.ReadFile(local, "/tmp/hostname")
	require.NoError(t, err)
	assert.Equal(t, "web-1\n", string(content))
}

func TestSession_DownloadMissingRemote(t *testing.T) {
	s, _, _ := newTestSession(t, newFakeClient())

	err := s.Download(context.Background(), "/etc/nope", "/tmp/nope")

	var transferErr *TransferError
	require.ErrorAs(t, err, &transferErr)
	assert.Equal(t, "download", transferErr.Op)
}

func TestSession_FileExists(t *testing.T) {
	client := newFakeClient()
	require.NoError(t, afero.WriteFile(client.files.fs, "/etc/nginx/nginx.conf", []byte("x"), 0644))
	s, _, rec := newTestSession(t, client)
	ctx := context.Background()

	assert.True(t, s.FileExists(ctx, "/etc/nginx/nginx.conf"))
	assert.False(t, s.FileExists(ctx, "/etc/nginx/missing.conf"))
	assert.Equal(t, 0, rec.count(observability.EventTransferFailed), "not found is not a failure")
}

func TestSession_FileExistsTransportError(t *testing.T) {
	client := newFakeClient()
	client.files.statErr = errors.New("permission denied")
	s, _, rec := newTestSession(t, client)

	assert.False(t, s.FileExists(context.Background(), "/root/secret"))
	assert.Equal(t, 1, rec.count(observability.EventTransferFailed))
	assert.Contains(t, rec.events[len(rec.events)-1].Message, "permission denied")
}

func TestSession_FileExistsSFTPUnavailable(t *testing.T) {
	client := newFakeClient()
	client.filesErr = errors.New("boom")
	s, _, rec := newTestSession(t, client)

	assert.False(t, s.FileExists(context.Background(), "/etc/hosts"))
	assert.Equal(t, 1, rec.count(observability.EventTransferFailed))
}
