package busservice

import (
	"context"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"brokerd/internal/broker"
	"brokerd/internal/config"
	"brokerd/internal/logging"
	"brokerd/internal/proto"
	"brokerd/internal/relay"
)

// Session is the per-user facade on the session bus: a transparent
// forwarder to the privileged endpoint. It resolves no identity itself; the
// privileged side re-derives the caller's uid from its own transport.
type Session struct {
	relay  relay.Relay
	logger *slog.Logger
}

// NewSession builds the forwarder facade over a relay strategy.
func NewSession(r relay.Relay, logger *slog.Logger) *Session {
	return &Session{
		relay:  r,
		logger: logging.WithComponent(logger, "session-broker"),
	}
}

// Dispatch forwards one call through the relay. Exported for the method
// table.
func (s *Session) Dispatch(op string, args proto.Tuple) (string, *dbus.Error) {
	logger := s.logger.With(
		logging.String(logging.FieldOperation, op),
		logging.String(logging.FieldCorrelationID, args.CorrelationID))

	result, err := s.relay.Call(context.Background(), op, args)
	if err != nil {
		status := broker.AsStatus(err)
		logger.Warn("relay failed", logging.Error(err))
		return "", statusError(broker.SessionInterface, status)
	}
	logger.Debug("relay complete")
	return result, nil
}

func (s *Session) methodTable() map[string]interface{} {
	table := make(map[string]interface{}, len(proto.Operations()))
	for _, op := range proto.Operations() {
		op := op
		table[op] = func(protocolVersion, correlationID, requestJSON string) (string, *dbus.Error) {
			return s.Dispatch(op, proto.Tuple{
				ProtocolVersion: protocolVersion,
				CorrelationID:   correlationID,
				RequestJSON:     requestJSON,
			})
		}
	}
	return table
}

// ServeSession connects to the session bus, claims the imitated broker
// name, and exports the forwarder facade.
func ServeSession(cfg *config.Config, r relay.Relay, logger *slog.Logger) (*Service, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}

	facade := NewSession(r, logger)
	node := brokerNode(broker.SessionInterface, proto.Operations(),
		[]string{"protocol_version", "correlation_id", "request_json"})
	if err := export(conn, facade.methodTable(), dbus.ObjectPath(broker.SessionObjectPath), broker.SessionInterface, broker.SessionBusName, node); err != nil {
		_ = conn.Close()
		return nil, err
	}

	facade.logger.Info("session broker serving",
		logging.String(logging.FieldBusName, broker.SessionBusName),
		logging.String("relay_strategy", cfg.Relay.Strategy))
	return &Service{conn: conn, name: broker.SessionBusName, logger: facade.logger}, nil
}
