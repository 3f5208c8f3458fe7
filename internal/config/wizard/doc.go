// Package wizard provides the interactive prompt behind "hostforge init".
//
// It uses charmbracelet/huh forms to collect connection details, the
// application account and feature toggles, converts the answers into a
// config.Config with BuildConfig and writes them as an env file with
// WriteConfig.
package wizard
