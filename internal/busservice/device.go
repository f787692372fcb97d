package busservice

import (
	"context"
	"log/slog"

	"github.com/godbus/dbus/v5"

	"brokerd/internal/broker"
	"brokerd/internal/logging"
)

// Device is the privileged key-management facade on the system bus. Unlike
// the system broker it performs no uid resolution: callers present an opaque
// session id and the implementation owns uid-equivalent authorization.
type Device struct {
	impl   broker.DeviceBroker
	logger *slog.Logger
}

// NewDevice builds the facade around a key-management implementation.
func NewDevice(impl broker.DeviceBroker, logger *slog.Logger) *Device {
	return &Device{
		impl:   impl,
		logger: logging.WithComponent(logger, "device-broker"),
	}
}

type deviceOp func(ctx context.Context, impl broker.DeviceBroker, sessionID, requestJSON string) (string, error)

// deviceOperations binds wire method names to implementation methods, in
// the interface's wire order.
var deviceOperations = []struct {
	name string
	call deviceOp
}{
	{"sign", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.Sign(ctx, sid, rj)
	}},
	{"generateKeyPair", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.GenerateKeyPair(ctx, sid, rj)
	}},
	{"loadKeyPair", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.LoadKeyPair(ctx, sid, rj)
	}},
	{"persistKey", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.PersistKey(ctx, sid, rj)
	}},
	{"generateDerivedKey", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.GenerateDerivedKey(ctx, sid, rj)
	}},
	{"deleteKey", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.DeleteKey(ctx, sid, rj)
	}},
	{"decrypt", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.Decrypt(ctx, sid, rj)
	}},
	{"generatePKCS10CertSigningRequest", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.GeneratePKCS10CertSigningRequest(ctx, sid, rj)
	}},
	{"asymmetricKeyExists", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.AsymmetricKeyExists(ctx, sid, rj)
	}},
	{"asymmetricKeyWithThumbprintExists", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.AsymmetricKeyWithThumbprintExists(ctx, sid, rj)
	}},
	{"getAsymmetricKeyThumbprint", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.GetAsymmetricKeyThumbprint(ctx, sid, rj)
	}},
	{"generateAsymmetricKey", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.GenerateAsymmetricKey(ctx, sid, rj)
	}},
	{"getAsymmetricKeyCreationDate", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.GetAsymmetricKeyCreationDate(ctx, sid, rj)
	}},
	{"clearAsymmetricKey", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.ClearAsymmetricKey(ctx, sid, rj)
	}},
	{"getRequestConfirmation", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.GetRequestConfirmation(ctx, sid, rj)
	}},
	{"mintSignedAccessToken", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.MintSignedAccessToken(ctx, sid, rj)
	}},
	{"mintSignedHttpRequest", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.MintSignedHTTPRequest(ctx, sid, rj)
	}},
	{"makeHttpRequestWithClientTls", func(ctx context.Context, impl broker.DeviceBroker, sid, rj string) (string, error) {
		return impl.MakeHTTPRequestWithClientTLS(ctx, sid, rj)
	}},
}

// DeviceOperations returns the wire method names of the device facade.
func DeviceOperations() []string {
	names := make([]string, 0, len(deviceOperations))
	for _, op := range deviceOperations {
		names = append(names, op.name)
	}
	return names
}

// Dispatch routes one key-management call by wire name. Exported for the
// method table.
func (d *Device) Dispatch(op, sessionID, requestJSON string) (string, *dbus.Error) {
	logger := d.logger.With(logging.String(logging.FieldOperation, op))

	var call deviceOp
	for _, known := range deviceOperations {
		if known.name == op {
			call = known.call
			break
		}
	}
	if call == nil {
		logger.Warn("unknown operation")
		return "", statusError(broker.DeviceInterface, broker.Failed("unknown operation %q", op))
	}

	result, err := call(context.Background(), d.impl, sessionID, requestJSON)
	if err != nil {
		status := broker.AsStatus(err)
		logger.Warn("dispatch failed", logging.Error(err))
		return "", statusError(broker.DeviceInterface, status)
	}
	logger.Debug("dispatch complete")
	return result, nil
}

func (d *Device) methodTable() map[string]interface{} {
	table := make(map[string]interface{}, len(deviceOperations))
	for _, op := range deviceOperations {
		name := op.name
		table[name] = func(sessionID, requestJSON string) (string, *dbus.Error) {
			return d.Dispatch(name, sessionID, requestJSON)
		}
	}
	return table
}

// ServeDevice connects to the system bus, claims the device broker name,
// and exports the facade.
func ServeDevice(impl broker.DeviceBroker, logger *slog.Logger) (*Service, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, err
	}

	facade := NewDevice(impl, logger)
	node := brokerNode(broker.DeviceInterface, DeviceOperations(),
		[]string{"session_id", "request_json"})
	if err := export(conn, facade.methodTable(), dbus.ObjectPath(broker.DeviceObjectPath), broker.DeviceInterface, broker.DeviceBusName, node); err != nil {
		_ = conn.Close()
		return nil, err
	}

	facade.logger.Info("device broker serving", logging.String(logging.FieldBusName, broker.DeviceBusName))
	return &Service{conn: conn, name: broker.DeviceBusName, logger: facade.logger}, nil
}
