// Package provisioning runs named, dependency-ordered tasks against one
// remote host.
//
// # Core Types
//
// Task is a unit of provisioning work with a PreRun, Run and PostRun
// lifecycle. Registry maps task names to a Descriptor and a Factory in
// registration order. Orchestrator resolves a requested task list
// depth-first, runs every task at most once per run, stops at the first
// failure and reports dependency cycles. Deps carries the collaborators a
// task needs: the Config, the remote session, the template renderer and an
// Observer.
package provisioning
