// Package config defines the configuration record shared read-only by every
// provisioning task.
//
// A [Config] is loaded once from a flat KEY=value env file (see [Load]),
// optionally adjusted by command-line [Overrides], validated and then passed
// by pointer to the orchestrator. Nothing mutates a Config after that point;
// overrides always produce a copy.
package config
