package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"brokerd/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.RuntimeDir = filepath.Join(base, "run")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Socket.Path = SocketPath(t)
	cfgVal.Audit.Path = filepath.Join(base, "audit.db")
	cfgVal.Relay.TimeoutSeconds = 2
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:   t,
		cfg: &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRelayStrategy sets the session forwarding strategy on the test config.
func WithRelayStrategy(strategy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Relay.Strategy = strategy
	}
}

// WithRelayTimeout sets the relay response timeout in seconds.
func WithRelayTimeout(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Relay.TimeoutSeconds = seconds
	}
}

// WithChunkSize sets the socket relay read chunk size.
func WithChunkSize(size int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Relay.ChunkSize = size
	}
}

// SocketPath returns a fresh unix socket path short enough for sun_path.
// t.TempDir can exceed the 108-byte limit on some systems, so sockets get
// their own directory under the default temp root.
func SocketPath(t testing.TB) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "brokerd-test")
	if err != nil {
		t.Fatalf("mkdir socket dir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.RemoveAll(dir)
	})
	return filepath.Join(dir, "broker.sock")
}
