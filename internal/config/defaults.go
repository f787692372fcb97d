package config

const (
	defaultRuntimeDir     = "/run/brokerd"
	defaultLogDir         = "/var/log/brokerd"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultBusCallTimeout = 5
	defaultRelayStrategy  = "bus"
	defaultRelayTimeout   = 10
	defaultRelayChunkSize = 4096
	defaultAuditEnabled   = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RuntimeDir: defaultRuntimeDir,
			LogDir:     defaultLogDir,
		},
		Bus: Bus{
			CallTimeoutSeconds: defaultBusCallTimeout,
		},
		Relay: Relay{
			Strategy:       defaultRelayStrategy,
			TimeoutSeconds: defaultRelayTimeout,
			ChunkSize:      defaultRelayChunkSize,
		},
		Audit: Audit{
			Enabled: defaultAuditEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
