package tasks

import (
	"strings"
	"testing"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/provisioning"
	testutil "github.com/imamik/hostforge/internal/testing"
)

type harness struct {
	remote   *testutil.MockRemote
	renderer *testutil.MockRenderer
	observer *testutil.RecordingObserver
	deps     provisioning.Deps
}

func newHarness(cfg *config.Config, remote *testutil.MockRemote) *harness {
	h := &harness{
		remote:   remote,
		renderer: testutil.NewMockRenderer(),
		observer: testutil.NewRecordingObserver(),
	}
	h.deps = provisioning.Deps{
		Config:   cfg,
		Remote:   remote,
		Renderer: h.renderer,
		Observer: h.observer,
	}
	return h
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func provisioningExecute(t *testing.T, task provisioning.Task) error {
	t.Helper()
	return provisioning.Execute(testutil.TestContext(t), task)
}
