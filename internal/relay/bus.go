package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"brokerd/internal/broker"
	"brokerd/internal/proto"
)

// BusRelay forwards calls to the system-bus facade. Each call opens a
// private bus connection, invokes the matching method under a bounded
// timeout, and closes the connection before returning.
type BusRelay struct {
	timeout time.Duration
}

// NewBusRelay builds the bus-to-bus strategy. timeout bounds each call.
func NewBusRelay(timeout time.Duration) *BusRelay {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BusRelay{timeout: timeout}
}

// Call implements Relay.
func (r *BusRelay) Call(ctx context.Context, op string, args proto.Tuple) (string, error) {
	if !proto.KnownOperation(op) {
		return "", broker.Failed("unknown operation %q", op)
	}

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return "", broker.Failed("connect system bus: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var result string
	obj := conn.Object(broker.SystemBusName, dbus.ObjectPath(broker.SystemObjectPath))
	call := obj.CallWithContext(ctx, fmt.Sprintf("%s.%s", broker.SystemInterface, op), 0,
		args.ProtocolVersion, args.CorrelationID, args.RequestJSON)
	if call.Err != nil {
		if ctx.Err() != nil {
			return "", broker.Timeout("%s timed out after %s", op, r.timeout)
		}
		return "", broker.Failed("%s: %v", op, call.Err)
	}
	if err := call.Store(&result); err != nil {
		return "", broker.Failed("decode %s reply: %v", op, err)
	}
	return result, nil
}
