package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateBus(); err != nil {
		return err
	}
	if err := c.validateRelay(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.RuntimeDir == "" {
		return errors.New("paths.runtime_dir must be set")
	}
	if c.Socket.Path == "" {
		return errors.New("socket.path must be set")
	}
	return nil
}

func (c *Config) validateBus() error {
	if c.Bus.CallTimeoutSeconds <= 0 {
		return errors.New("bus.call_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateRelay() error {
	switch c.Relay.Strategy {
	case "bus", "socket":
	default:
		return fmt.Errorf("relay.strategy must be %q or %q, got %q", "bus", "socket", c.Relay.Strategy)
	}
	if c.Relay.TimeoutSeconds <= 0 {
		return errors.New("relay.timeout_seconds must be positive")
	}
	if c.Relay.ChunkSize <= 0 {
		return errors.New("relay.chunk_size must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json", "":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
