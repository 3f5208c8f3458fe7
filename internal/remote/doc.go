// Package remote provides the SSH session every provisioning task runs
// through.
//
// A [Session] owns a single authenticated connection for the duration of a
// run. It executes shell commands (optionally escalated with a privilege
// prefix such as "sudo "), transfers files over SFTP on the same connection
// and probes whether remote paths exist. Calls made while disconnected
// connect implicitly.
//
// Remote failures never panic and never escape as raw transport errors:
// command failures become a [Result] with a non-zero exit code, transfers
// return a [*TransferError] and connection problems a [*ConnectionError].
//
// A Session is not safe for concurrent use. Tasks run strictly one after
// another and share it.
package remote
