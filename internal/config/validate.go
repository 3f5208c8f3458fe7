package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrMissingKey is wrapped by every missing-required-key validation error.
var ErrMissingKey = errors.New("required configuration key is missing")

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	required := []struct {
		key   string
		value string
	}{
		{KeyHost, c.Host},
		{KeyServerHostname, c.ServerHostname},
		{KeyUserName, c.UserName},
		{KeyPassword, c.Password},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			result = multierror.Append(result, fmt.Errorf("%w: %s", ErrMissingKey, strings.ToUpper(r.key)))
		}
	}

	if c.SSHPort <= 0 || c.SSHPort > 65535 {
		result = multierror.Append(result, fmt.Errorf("SSH_PORT must be between 1 and 65535, got %d", c.SSHPort))
	}
	if c.AppPort <= 0 || c.AppPort > 65535 {
		result = multierror.Append(result, fmt.Errorf("APP_PORT must be between 1 and 65535, got %d", c.AppPort))
	}
	if c.LoginUser == "" {
		result = multierror.Append(result, fmt.Errorf("%w: %s", ErrMissingKey, strings.ToUpper(KeyLoginUser)))
	}

	return result.ErrorOrNil()
}
