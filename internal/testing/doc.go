// Package testing provides test utilities, builders, and fixtures shared by
// package tests.
//
//   - ConfigBuilder: fluent builder for run configurations
//   - MockRemote: testify mock of provisioning.Session
//   - MockRenderer: testify mock of provisioning.Renderer
//   - RecordingObserver: captures observer events for assertions
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithTasks("firewall").
//	    WithPostgres().
//	    Build()
//
//	remote := testing.NewRemoteFixture().AllSucceed()
package testing
