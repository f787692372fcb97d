package busservice

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"brokerd/internal/broker"
	"brokerd/internal/logging"
)

// Service is one exported facade bound to a claimed well-known name.
type Service struct {
	conn   *dbus.Conn
	name   string
	logger *slog.Logger
}

// Close releases the well-known name and the bus connection.
func (s *Service) Close() {
	if s == nil || s.conn == nil {
		return
	}
	if _, err := s.conn.ReleaseName(s.name); err != nil {
		s.logger.Warn("release bus name failed",
			logging.String(logging.FieldBusName, s.name),
			logging.Error(err))
	}
	_ = s.conn.Close()
}

// export binds the method table and introspection data at path, then claims
// name. Export happens before the claim so no caller can observe the name
// without a handler behind it.
func export(conn *dbus.Conn, methods map[string]interface{}, path dbus.ObjectPath, iface, name string, node *introspect.Node) error {
	if err := conn.ExportMethodTable(methods, path, iface); err != nil {
		return fmt.Errorf("export %s: %w", iface, err)
	}
	if err := conn.Export(introspect.NewIntrospectable(node), path, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("export introspection for %s: %w", iface, err)
	}
	return claimName(conn, name)
}

// claimName requests exclusive ownership of a well-known bus name. Any
// outcome but primary ownership is fatal: a second broker instance must not
// start.
func claimName(conn *dbus.Conn, name string) error {
	reply, err := conn.RequestName(name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request bus name %s: %w", name, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s is already owned", name)
	}
	return nil
}

// brokerNode builds introspection data for a facade whose every method takes
// in-args named by argNames and returns a single result string.
func brokerNode(iface string, operations []string, argNames []string) *introspect.Node {
	methods := make([]introspect.Method, 0, len(operations))
	for _, op := range operations {
		args := make([]introspect.Arg, 0, len(argNames)+1)
		for _, argName := range argNames {
			args = append(args, introspect.Arg{Name: argName, Type: "s", Direction: "in"})
		}
		args = append(args, introspect.Arg{Name: "result", Type: "s", Direction: "out"})
		methods = append(methods, introspect.Method{Name: op, Args: args})
	}
	return &introspect.Node{
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{Name: iface, Methods: methods},
		},
	}
}

// statusError maps a Status onto the facade's bus error vocabulary.
func statusError(iface string, status *broker.Status) *dbus.Error {
	var suffix string
	switch status.Code {
	case broker.CodeDeclined:
		suffix = "Declined"
	case broker.CodeTimeout:
		suffix = "Timeout"
	case broker.CodeUnauthorized:
		suffix = "Unauthorized"
	default:
		suffix = "Failed"
	}
	return dbus.NewError(fmt.Sprintf("%s.Error.%s", iface, suffix), []interface{}{status.Message})
}
