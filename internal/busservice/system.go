package busservice

import (
	"context"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"brokerd/internal/audit"
	"brokerd/internal/broker"
	"brokerd/internal/config"
	"brokerd/internal/creds"
	"brokerd/internal/logging"
	"brokerd/internal/proto"
)

// System is the privileged broker facade on the system bus. Every operation
// is privilege-sensitive: the sender's uid is resolved per call and passed
// to the implementation.
type System struct {
	broker   broker.Broker
	resolver creds.Resolver
	audit    *audit.Log
	logger   *slog.Logger
}

// NewSystem builds the facade around a broker implementation and a sender
// resolver.
func NewSystem(b broker.Broker, resolver creds.Resolver, auditLog *audit.Log, logger *slog.Logger) *System {
	return &System{
		broker:   b,
		resolver: resolver,
		audit:    auditLog,
		logger:   logging.WithComponent(logger, "system-broker"),
	}
}

// Dispatch resolves the sender's identity and routes one call. Exported for
// the method table; a failed call yields a typed bus error, never a dead
// service.
func (s *System) Dispatch(op string, sender dbus.Sender, args proto.Tuple) (string, *dbus.Error) {
	ctx := context.Background()
	logger := s.logger.With(
		logging.String(logging.FieldOperation, op),
		logging.String(logging.FieldCorrelationID, args.CorrelationID))

	uid, err := s.resolver.CallerUID(ctx, string(sender))
	if err != nil {
		status := broker.Declined("resolve caller identity: %v", err)
		logger.Warn("caller identity unresolved", logging.Error(err))
		s.record(ctx, op, args.CorrelationID, 0, audit.OutcomeDeclined, logger)
		return "", statusError(broker.SystemInterface, status)
	}
	logger = logger.With(logging.Uint64(logging.FieldUID, uint64(uid)))

	result, err := broker.Dispatch(ctx, s.broker, op, args, uid)
	if err != nil {
		status := broker.AsStatus(err)
		logger.Warn("dispatch failed", logging.Error(err))
		s.record(ctx, op, args.CorrelationID, uid, outcomeFor(status), logger)
		return "", statusError(broker.SystemInterface, status)
	}

	s.record(ctx, op, args.CorrelationID, uid, audit.OutcomeOK, logger)
	logger.Debug("dispatch complete")
	return result, nil
}

func (s *System) record(ctx context.Context, op, correlationID string, uid uint32, outcome string, logger *slog.Logger) {
	err := s.audit.Record(ctx, audit.Entry{
		Transport:     audit.TransportBus,
		Operation:     op,
		UID:           uid,
		CorrelationID: correlationID,
		Outcome:       outcome,
	})
	if err != nil {
		logger.Warn("audit record failed", logging.Error(err))
	}
}

func outcomeFor(status *broker.Status) string {
	switch status.Code {
	case broker.CodeDeclined, broker.CodeUnauthorized:
		return audit.OutcomeDeclined
	case broker.CodeTimeout:
		return audit.OutcomeTimeout
	default:
		return audit.OutcomeFailed
	}
}

// methodTable binds each wire operation name to a handler closure.
func (s *System) methodTable() map[string]interface{} {
	table := make(map[string]interface{}, len(proto.Operations()))
	for _, op := range proto.Operations() {
		op := op
		table[op] = func(sender dbus.Sender, protocolVersion, correlationID, requestJSON string) (string, *dbus.Error) {
			return s.Dispatch(op, sender, proto.Tuple{
				ProtocolVersion: protocolVersion,
				CorrelationID:   correlationID,
				RequestJSON:     requestJSON,
			})
		}
	}
	return table
}

// ServeSystem connects to the system bus, claims the broker name, and
// exports the facade. The returned service handles calls until closed.
func ServeSystem(cfg *config.Config, b broker.Broker, auditLog *audit.Log, logger *slog.Logger) (*Service, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, err
	}

	resolver, err := creds.NewBusResolver(conn, cfg.BusCallTimeout())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	facade := NewSystem(b, resolver, auditLog, logger)
	node := brokerNode(broker.SystemInterface, proto.Operations(),
		[]string{"protocol_version", "correlation_id", "request_json"})
	if err := export(conn, facade.methodTable(), dbus.ObjectPath(broker.SystemObjectPath), broker.SystemInterface, broker.SystemBusName, node); err != nil {
		_ = conn.Close()
		return nil, err
	}

	facade.logger.Info("system broker serving", logging.String(logging.FieldBusName, broker.SystemBusName))
	return &Service{conn: conn, name: broker.SystemBusName, logger: facade.logger}, nil
}
