package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/imamik/hostforge/internal/provisioning"
)

var (
	nginxBasicDescriptor = provisioning.Descriptor{
		Name:        NameNginxBasic,
		Description: "Configure Nginx without SSL",
		DependsOn:   []string{NamePackages},
	}
	nginxSSLDescriptor = provisioning.Descriptor{
		Name:        NameNginxSSL,
		Description: "Configure Nginx with SSL",
		DependsOn:   []string{NameNginxBasic},
	}
	nginxWWWDescriptor = provisioning.Descriptor{
		Name:        NameNginxWWW,
		Description: "Configure Nginx with SSL and www redirection",
		DependsOn:   []string{NameNginxBasic},
	}
)

// ErrSSLEmailRequired is returned when certificate issuance is enabled
// without a contact address.
var ErrSSLEmailRequired = errors.New("SSL email is required for Let's Encrypt")

const (
	acmeWebroot = "/var/www/html"
	renewCron   = "0 0 * * * certbot renew --quiet --no-self-upgrade && systemctl reload nginx"
)

func siteConfPath(hostname string) string {
	return fmt.Sprintf("/etc/nginx/conf.d/%s.conf", hostname)
}

// reloadNginx validates the configuration before reloading.
func reloadNginx(ctx context.Context, b *provisioning.Base) error {
	return b.SudoAll(ctx, "nginx -t", "systemctl reload nginx")
}

// NginxBasic installs the main nginx.conf and a plain HTTP site proxying to
// the application.
type NginxBasic struct {
	provisioning.Base
}

func newNginxBasic(deps provisioning.Deps) provisioning.Task {
	return &NginxBasic{Base: provisioning.NewBase(nginxBasicDescriptor, deps)}
}

// Run implements provisioning.Task.
func (t *NginxBasic) Run(ctx context.Context) error {
	err := t.SudoAll(ctx,
		"rm -f /etc/nginx/conf.d/default.conf",
		"rm -f /etc/nginx/sites-enabled/default",
	)
	if err != nil {
		return err
	}
	if err := t.Install(ctx, "nginx.conf", "/etc/nginx/nginx.conf", "644", nil); err != nil {
		return err
	}
	return t.Install(ctx, "basic.conf", siteConfPath(t.Config.ServerHostname), "644", nil)
}

// PostRun implements provisioning.Task.
func (t *NginxBasic) PostRun(ctx context.Context) error {
	return reloadNginx(ctx, &t.Base)
}

// certificateSite obtains a Let's Encrypt certificate through the ACME
// webroot and swaps in the final TLS site configuration.
type certificateSite struct {
	provisioning.Base

	finalTemplate string
	www           bool
}

// NginxSSL serves the site over HTTPS for the bare hostname.
type NginxSSL struct {
	certificateSite
}

func newNginxSSL(deps provisioning.Deps) provisioning.Task {
	return &NginxSSL{certificateSite{
		Base:          provisioning.NewBase(nginxSSLDescriptor, deps),
		finalTemplate: "default.conf",
	}}
}

// NginxWWW serves the site over HTTPS for the hostname and its www alias,
// redirecting www to the bare hostname.
type NginxWWW struct {
	certificateSite
}

func newNginxWWW(deps provisioning.Deps) provisioning.Task {
	return &NginxWWW{certificateSite{
		Base:          provisioning.NewBase(nginxWWWDescriptor, deps),
		finalTemplate: "ssl.conf",
		www:           true,
	}}
}

// Domains returns the names the certificate is issued for.
func (t *certificateSite) Domains() []string {
	domains := []string{t.Config.ServerHostname}
	if t.www {
		domains = append(domains, "www."+t.Config.ServerHostname)
	}
	return domains
}

// PreRun implements provisioning.Task.
func (t *certificateSite) PreRun(context.Context) error {
	if t.Config.SSLEnabled && strings.TrimSpace(t.Config.SSLEmail) == "" {
		return ErrSSLEmailRequired
	}
	return nil
}

// Run implements provisioning.Task. It does nothing when SSL is disabled.
func (t *certificateSite) Run(ctx context.Context) error {
	if !t.Config.SSLEnabled {
		t.Observer.Printf("SSL is disabled, skipping certificate setup")
		return nil
	}

	vars := map[string]interface{}{"use_www": t.www}
	site := siteConfPath(t.Config.ServerHostname)

	if err := t.Install(ctx, "initial-ssl.conf", site, "644", vars); err != nil {
		return err
	}
	if err := reloadNginx(ctx, &t.Base); err != nil {
		return err
	}

	err := t.SudoAll(ctx,
		aptUpdate(),
		aptInstall("certbot", "python3-certbot-nginx"),
		"mkdir -p "+acmeWebroot+"/.well-known/acme-challenge",
		t.certbotCommand(),
		bash("crontab -l 2>/dev/null | grep -q 'certbot renew' || (crontab -l 2>/dev/null; echo '"+renewCron+"') | crontab -"),
	)
	if err != nil {
		return err
	}
	return t.Install(ctx, t.finalTemplate, site, "644", vars)
}

// PostRun implements provisioning.Task.
func (t *certificateSite) PostRun(ctx context.Context) error {
	if !t.Config.SSLEnabled {
		return nil
	}
	return reloadNginx(ctx, &t.Base)
}

func (t *certificateSite) certbotCommand() string {
	var b strings.Builder
	b.WriteString("certbot certonly --webroot -w " + acmeWebroot)
	for _, d := range t.Domains() {
		b.WriteString(" -d " + shellescape.Quote(d))
	}
	b.WriteString(" --non-interactive --agree-tos --email " + shellescape.Quote(t.Config.SSLEmail))
	return b.String()
}
