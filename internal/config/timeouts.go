package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the remote session timeouts.
// These values can be customized via environment variables.
type Timeouts struct {
	Connect time.Duration // Dial and handshake timeout
	Command time.Duration // Upper bound for a single remote command, zero disables it

	// ConnectRetries is how often a refused or timed out dial is retried.
	ConnectRetries int
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - HOSTFORGE_TIMEOUT_CONNECT (default: 10s)
//   - HOSTFORGE_TIMEOUT_COMMAND (default: 30m)
//   - HOSTFORGE_CONNECT_RETRIES (default: 3)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Connect:        parseDuration("HOSTFORGE_TIMEOUT_CONNECT", 10*time.Second),
		Command:        parseDuration("HOSTFORGE_TIMEOUT_COMMAND", 30*time.Minute),
		ConnectRetries: parseCount("HOSTFORGE_CONNECT_RETRIES", 3),
	}
}

func parseCount(envVar string, defaultVal int) int {
	n, err := strconv.Atoi(os.Getenv(envVar))
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}

	return d
}
