// Package main is the entry point for the hostforge CLI.
//
// hostforge provisions a fresh Ubuntu server over SSH: system packages, an
// application user, a firewall, Python, an optional PostgreSQL database, the
// application checkout with its systemd units, and nginx with optional
// Let's Encrypt certificates.
//
// Commands: setup, list-tasks, init, version.
//
// For detailed usage information, run:
//
//	hostforge --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/hostforge/cmd/hostforge/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
