package testsupport

import (
	"testing"

	"brokerd/internal/audit"
	"brokerd/internal/config"
)

// MustOpenAudit opens an audit.Log for tests and registers cleanup.
func MustOpenAudit(t testing.TB, cfg *config.Config) *audit.Log {
	t.Helper()

	log, err := audit.Open(cfg.AuditPath())
	if err != nil {
		t.Fatalf("audit.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = log.Close()
	})
	return log
}
