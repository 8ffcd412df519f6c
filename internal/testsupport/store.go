package testsupport

import (
	"testing"

	"prodid/internal/config"
	"prodid/internal/learned"
)

// MustOpenStore opens a learned store against the test config and closes it
// on cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *learned.Store {
	t.Helper()
	store, err := learned.Open(cfg)
	if err != nil {
		t.Fatalf("open learned store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
