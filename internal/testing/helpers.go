package testing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// AssertInOrder fails the test unless want appears in got as a subsequence.
func AssertInOrder(t *testing.T, got []string, want ...string) bool {
	t.Helper()
	i := 0
	for _, g := range got {
		if i < len(want) && g == want[i] {
			i++
		}
	}
	if i < len(want) {
		return assert.Fail(t, "missing or out of order", "expected %q in order, first missing %q\ngot: %q", want, want[i], got)
	}
	return true
}
