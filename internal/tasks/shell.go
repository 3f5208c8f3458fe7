package tasks

import (
	"fmt"
	"strings"

	"github.com/alessio/shellescape"
)

const debianFrontend = "DEBIAN_FRONTEND=noninteractive"

// bash wraps a compound command so the privilege prefix applies to all of it.
func bash(command string) string {
	return "bash -c " + shellescape.Quote(command)
}

// asUser runs command through bash as the given account.
func asUser(user, command string) string {
	return fmt.Sprintf("sudo -u %s bash -c %s", shellescape.Quote(user), shellescape.Quote(command))
}

func aptInstall(packages ...string) string {
	return fmt.Sprintf("%s apt-get install -y %s", debianFrontend, strings.Join(packages, " "))
}

func aptUpdate() string {
	return debianFrontend + " apt-get update"
}

// psql runs one SQL statement as the postgres superuser in tuples-only mode.
func psql(statement string) string {
	return "sudo -u postgres psql -tAc " + shellescape.Quote(statement)
}

func sqlLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sqlIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
