package wizard

import (
	"context"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

var (
	// hostnameRegex accepts dotted DNS names with at least two labels.
	hostnameRegex = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)
	// userNameRegex follows the useradd NAME_REGEX default.
	userNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)
)

// runConnectionGroup prompts for how to reach the server.
func runConnectionGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Host").
				Description("IP address or DNS name of the server").
				Placeholder("203.0.113.10").
				Value(&result.Host).
				Validate(validateHost),
			huh.NewInput().
				Title("SSH Port").
				Value(&result.SSHPort).
				Validate(validatePort),
			huh.NewInput().
				Title("SSH Key Path (Optional)").
				Description("Leave empty to log in with the account password").
				Placeholder("~/.ssh/id_ed25519").
				Value(&result.SSHKeyPath),
			huh.NewInput().
				Title("Login User").
				Description("Account used for the SSH login").
				Value(&result.LoginUser).
				Validate(validateUserName),
		).Title("Connection"),
	).RunWithContext(ctx)
}

// runIdentityGroup prompts for the server name and application account.
func runIdentityGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server Hostname").
				Description("Domain the application will be served on").
				Placeholder("app.example.com").
				Value(&result.ServerHostname).
				Validate(validateHostname),
			huh.NewInput().
				Title("User Name").
				Description("Account that owns and runs the application").
				Placeholder("deploy").
				Value(&result.UserName).
				Validate(validateUserName),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&result.Password).
				Validate(validatePassword),
		).Title("Server Identity"),
	).RunWithContext(ctx)
}

// runFeaturesGroup prompts for the feature toggles.
func runFeaturesGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable SSL?").
				Description("Request a Let's Encrypt certificate with certbot").
				Value(&result.SSLEnabled),
			huh.NewConfirm().
				Title("Redirect www?").
				Description("Also serve and certify www.<hostname>").
				Value(&result.UseWWW),
			huh.NewConfirm().
				Title("Behind Cloudflare?").
				Description("Trust Cloudflare proxy headers in nginx").
				Value(&result.CloudflareEnabled),
			huh.NewConfirm().
				Title("Install PostgreSQL?").
				Value(&result.PostgresEnabled),
		).Title("Features"),
	).RunWithContext(ctx)
}

// runSSLGroup prompts for the certificate contact address.
func runSSLGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("SSL Contact Email").
				Description("Used by Let's Encrypt for expiry notices").
				Value(&result.SSLEmail).
				Validate(validateEmail),
		).Title("SSL"),
	).RunWithContext(ctx)
}

// runTasksGroup prompts for an optional task subset.
func runTasksGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Tasks").
				Description("Select nothing to run every task").
				Options(TaskOptions(result.PostgresEnabled)...).
				Value(&result.SelectedTasks),
		).Title("Tasks"),
	).RunWithContext(ctx)
}

func validateHost(s string) error {
	if strings.TrimSpace(s) == "" {
		return errHostRequired
	}
	return nil
}

func validateHostname(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errHostnameRequired
	}
	if !hostnameRegex.MatchString(s) {
		return errHostnameInvalid
	}
	return nil
}

func validateUserName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errUserRequired
	}
	if !userNameRegex.MatchString(s) {
		return errUserInvalid
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 8 {
		return errPasswordShort
	}
	return nil
}

func validatePort(s string) error {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || port < 1 || port > 65535 {
		return errPortInvalid
	}
	return nil
}

func validateEmail(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return errEmailInvalid
	}
	return nil
}
