package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// RuntimeDir holds the daemon lock file and, by default, the socket.
	RuntimeDir string `toml:"runtime_dir"`
	LogDir     string `toml:"log_dir"`
}

// Socket contains the stream-socket listener settings.
type Socket struct {
	// Path is the filesystem location of the broker socket. The socket is
	// world-connectable; authorization happens per connection via peer
	// credentials, not via file mode.
	Path string `toml:"path"`
}

// Bus contains D-Bus settings shared by the facades and the bus relay.
type Bus struct {
	CallTimeoutSeconds int `toml:"call_timeout_seconds"`
}

// Relay configures how the session facade reaches the privileged endpoint.
type Relay struct {
	// Strategy selects the forwarding leg: "bus" or "socket".
	Strategy       string `toml:"strategy"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// ChunkSize is the fixed read size used by the socket strategy to infer
	// message boundaries.
	ChunkSize int `toml:"chunk_size"`
}

// Audit configures the SQLite audit trail kept by the privileged daemon.
type Audit struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the broker services.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Socket  Socket  `toml:"socket"`
	Bus     Bus     `toml:"bus"`
	Relay   Relay   `toml:"relay"`
	Audit   Audit   `toml:"audit"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/brokerd/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = os.Getenv("BROKERD_CONFIG")
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	for _, candidate := range []string{"/etc/brokerd/config.toml", "~/.config/brokerd/config.toml"} {
		expanded, err := expandPath(candidate)
		if err != nil {
			return "", false, err
		}
		if info, err := os.Stat(expanded); err == nil && !info.IsDir() {
			return expanded, true, nil
		}
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	return defaultPath, false, nil
}

// LockPath returns the daemon single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.RuntimeDir, "brokerd.lock")
}

// AuditPath returns the resolved audit database location.
func (c *Config) AuditPath() string {
	if c.Audit.Path != "" {
		return c.Audit.Path
	}
	return filepath.Join(c.Paths.LogDir, "audit.db")
}

// BusCallTimeout returns the configured bus call timeout as a duration.
func (c *Config) BusCallTimeout() time.Duration {
	return time.Duration(c.Bus.CallTimeoutSeconds) * time.Second
}

// RelayTimeout returns the configured relay response timeout as a duration.
func (c *Config) RelayTimeout() time.Duration {
	return time.Duration(c.Relay.TimeoutSeconds) * time.Second
}

// EnsureDirectories creates the runtime and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.RuntimeDir, c.Paths.LogDir, filepath.Dir(c.Socket.Path)} {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// WriteSample writes the sample config to path, refusing to overwrite.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.RuntimeDir, err = expandPath(c.Paths.RuntimeDir); err != nil {
		return fmt.Errorf("paths.runtime_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Socket.Path) == "" {
		c.Socket.Path = filepath.Join(c.Paths.RuntimeDir, "broker.sock")
	}
	if c.Socket.Path, err = expandPath(c.Socket.Path); err != nil {
		return fmt.Errorf("socket.path: %w", err)
	}
	if c.Audit.Path != "" {
		if c.Audit.Path, err = expandPath(c.Audit.Path); err != nil {
			return fmt.Errorf("audit.path: %w", err)
		}
	}
	c.Relay.Strategy = strings.ToLower(strings.TrimSpace(c.Relay.Strategy))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Clean(trimmed), nil
}
