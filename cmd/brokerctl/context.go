package main

import (
	"fmt"
	"strings"
	"sync"

	"brokerd/internal/config"
	"brokerd/internal/relay"
)

type commandContext struct {
	configFlag    *string
	transportFlag *string
	socketFlag    *string
	timeoutFlag   *int

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, transportFlag, socketFlag *string, timeoutFlag *int) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		transportFlag: transportFlag,
		socketFlag:    socketFlag,
		timeoutFlag:   timeoutFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// dialRelay builds the relay selected by flags and config: --transport
// overrides the configured strategy, --socket overrides the socket path.
func (c *commandContext) dialRelay() (relay.Relay, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	resolved := *cfg
	if c.transportFlag != nil && strings.TrimSpace(*c.transportFlag) != "" {
		resolved.Relay.Strategy = strings.ToLower(strings.TrimSpace(*c.transportFlag))
	}
	if c.socketFlag != nil && strings.TrimSpace(*c.socketFlag) != "" {
		resolved.Socket.Path = strings.TrimSpace(*c.socketFlag)
	}
	if c.timeoutFlag != nil && *c.timeoutFlag > 0 {
		resolved.Relay.TimeoutSeconds = *c.timeoutFlag
		resolved.Bus.CallTimeoutSeconds = *c.timeoutFlag
	}

	r, err := relay.FromConfig(&resolved)
	if err != nil {
		return nil, fmt.Errorf("configure transport: %w", err)
	}
	return r, nil
}
