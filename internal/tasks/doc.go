// Package tasks contains the built-in provisioning tasks.
//
// Register adds them to a provisioning.Registry in a fixed order:
//
//	packages  user  firewall  python  database  app  service
//	nginx_basic  nginx_ssl  nginx_www
//
// Every task embeds provisioning.Base and implements Run; some override
// PreRun or PostRun for precondition checks and verification.
package tasks
