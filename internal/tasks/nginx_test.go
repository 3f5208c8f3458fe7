package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/imamik/hostforge/internal/testing"
)

const siteConf = "/etc/nginx/conf.d/app.example.com.conf"

func TestNginxBasic(t *testing.T) {
	t.Parallel()

	remote := testutil.NewRemoteFixture().AllSucceed()
	h := newHarness(testutil.MinimalConfig(), remote)
	task := newNginxBasic(h.deps)

	require.NoError(t, task.Run(testutil.TestContext(t)))
	require.NoError(t, task.PostRun(testutil.TestContext(t)))

	assert.Equal(t, []string{"nginx.conf", "basic.conf"}, h.renderer.Rendered())
	testutil.AssertInOrder(t, remote.Commands(),
		"rm -f /etc/nginx/conf.d/default.conf",
		"mv /tmp/nginx.conf /etc/nginx/nginx.conf",
		"mv /tmp/app.example.com.conf "+siteConf,
		"nginx -t",
		"systemctl reload nginx",
	)
}

func TestNginxBasic_InvalidConfigNotReloaded(t *testing.T) {
	t.Parallel()

	remote := testutil.NewRemoteFixture().
		CommandFails("nginx -t", "nginx: [emerg] unknown directive").
		AllSucceed()
	h := newHarness(testutil.MinimalConfig(), remote)

	require.Error(t, newNginxBasic(h.deps).PostRun(testutil.TestContext(t)))
	assert.NotContains(t, remote.Commands(), "systemctl reload nginx")
}

func TestNginxSSL(t *testing.T) {
	t.Parallel()

	remote := testutil.NewRemoteFixture().AllSucceed()
	h := newHarness(testutil.NewConfigBuilder().WithSSLEmail("ops@example.com").Build(), remote)
	task := newNginxSSL(h.deps)

	require.NoError(t, provisioningExecute(t, task))

	assert.Equal(t, []string{"initial-ssl.conf", "default.conf"}, h.renderer.Rendered())
	assert.Contains(t, remote.Commands(),
		"certbot certonly --webroot -w /var/www/html -d app.example.com --non-interactive --agree-tos --email ops@example.com")
	h.renderer.AssertCalled(t, "RenderToFile", "initial-ssl.conf", "", map[string]interface{}{"use_www": false})
}

func TestNginxWWW(t *testing.T) {
	t.Parallel()

	remote := testutil.NewRemoteFixture().AllSucceed()
	h := newHarness(testutil.NewConfigBuilder().WithSSLEmail("o'neil@example.com").Build(), remote)
	task := newNginxWWW(h.deps)

	require.NoError(t, provisioningExecute(t, task))

	assert.Equal(t, []string{"initial-ssl.conf", "ssl.conf"}, h.renderer.Rendered())
	assert.Contains(t, remote.Commands(),
		`certbot certonly --webroot -w /var/www/html -d app.example.com -d www.app.example.com --non-interactive --agree-tos --email 'o'"'"'neil@example.com'`)
}

func TestCertificateSite_SSLDisabled(t *testing.T) {
	t.Parallel()

	remote := testutil.NewRemoteFixture().AllSucceed()
	h := newHarness(testutil.NewConfigBuilder().WithoutSSL().WithSSLEmail("").Build(), remote)

	require.NoError(t, provisioningExecute(t, newNginxSSL(h.deps)))
	assert.Empty(t, remote.Commands())
	assert.Empty(t, h.renderer.Rendered())
}

func TestCertificateSite_MissingEmail(t *testing.T) {
	t.Parallel()

	remote := testutil.NewRemoteFixture().AllSucceed()
	h := newHarness(testutil.NewConfigBuilder().WithSSLEmail("").Build(), remote)

	err := provisioningExecute(t, newNginxWWW(h.deps))
	require.ErrorIs(t, err, ErrSSLEmailRequired)
	assert.Empty(t, remote.Commands())
}
