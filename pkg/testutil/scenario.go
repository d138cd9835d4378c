package testutil

import "testing"

// Given, When and Then label the phases of a scenario test. The closures run
// in order on the parent test, so state set in one phase is visible to the
// next; a failed phase still lets later phases report their own assertions.
func Given(t *testing.T, step string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+step, fn)
}

func When(t *testing.T, step string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+step, fn)
}

func Then(t *testing.T, step string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+step, fn)
}
