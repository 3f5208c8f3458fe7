package testing

import (
	"github.com/imamik/hostforge/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg *config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with a complete, valid config.
func NewConfigBuilder() *ConfigBuilder {
	cfg := config.Default()
	cfg.Host = "203.0.113.10"
	cfg.ServerHostname = "app.example.com"
	cfg.UserName = "deploy"
	cfg.Password = "correct-horse"
	cfg.SSLEmail = "ops@example.com"
	return &ConfigBuilder{cfg: cfg}
}

// WithHost sets the target host.
func (b *ConfigBuilder) WithHost(host string) *ConfigBuilder {
	return b.with(func(c *config.Config) { c.Host = host })
}

// WithHostname sets the server hostname.
func (b *ConfigBuilder) WithHostname(hostname string) *ConfigBuilder {
	return b.with(func(c *config.Config) { c.ServerHostname = hostname })
}

// WithUser sets the application user and password.
func (b *ConfigBuilder) WithUser(name, password string) *ConfigBuilder {
	return b.with(func(c *config.Config) {
		c.UserName = name
		c.Password = password
	})
}

// WithKey enables key authentication with the given private key path.
func (b *ConfigBuilder) WithKey(path string) *ConfigBuilder {
	return b.with(func(c *config.Config) { c.SSHKeyPath = path })
}

// WithLoginUser sets the SSH login user.
func (b *ConfigBuilder) WithLoginUser(user string) *ConfigBuilder {
	return b.with(func(c *config.Config) { c.LoginUser = user })
}

// WithTasks sets the task selection.
func (b *ConfigBuilder) WithTasks(tasks ...string) *ConfigBuilder {
	return b.with(func(c *config.Config) { c.SelectedTasks = append([]string(nil), tasks...) })
}

// WithPostgres enables the database task.
func (b *ConfigBuilder) WithPostgres() *ConfigBuilder {
	return b.with(func(c *config.Config) { c.PostgresEnabled = true })
}

// WithoutSSL disables certificate issuance.
func (b *ConfigBuilder) WithoutSSL() *ConfigBuilder {
	return b.with(func(c *config.Config) { c.SSLEnabled = false })
}

// WithSSLEmail sets the Let's Encrypt contact address.
func (b *ConfigBuilder) WithSSLEmail(email string) *ConfigBuilder {
	return b.with(func(c *config.Config) { c.SSLEmail = email })
}

// WithWWW enables the www alias.
func (b *ConfigBuilder) WithWWW() *ConfigBuilder {
	return b.with(func(c *config.Config) { c.UseWWW = true })
}

// WithCloudflare enables the Cloudflare real-IP block.
func (b *ConfigBuilder) WithCloudflare() *ConfigBuilder {
	return b.with(func(c *config.Config) { c.CloudflareEnabled = true })
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() *config.Config {
	return b.cfg.Clone()
}

func (b *ConfigBuilder) with(fn func(*config.Config)) *ConfigBuilder {
	cfg := b.cfg.Clone()
	fn(cfg)
	return &ConfigBuilder{cfg: cfg}
}

// MinimalConfig returns a valid config that selects every task.
func MinimalConfig() *config.Config {
	return NewConfigBuilder().Build()
}
