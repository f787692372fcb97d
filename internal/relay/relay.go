package relay

import (
	"context"
	"fmt"

	"brokerd/internal/config"
	"brokerd/internal/proto"
)

// Relay forwards one broker operation to the privileged endpoint and returns
// the raw result string. Failures are reported as *broker.Status values.
type Relay interface {
	Call(ctx context.Context, op string, args proto.Tuple) (string, error)
}

// FromConfig builds the relay strategy selected by cfg.
func FromConfig(cfg *config.Config) (Relay, error) {
	switch cfg.Relay.Strategy {
	case "bus":
		return NewBusRelay(cfg.BusCallTimeout()), nil
	case "socket":
		return NewSocketRelay(cfg.Socket.Path, cfg.RelayTimeout(), cfg.Relay.ChunkSize), nil
	default:
		return nil, fmt.Errorf("unknown relay strategy %q", cfg.Relay.Strategy)
	}
}
