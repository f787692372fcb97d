package busservice_test

import (
	"context"
	"sync"
	"testing"

	"brokerd/internal/broker"
	"brokerd/internal/busservice"
	"brokerd/internal/logging"
)

// recordingDevice answers every key-management call with its session id and
// records the operation order.
type recordingDevice struct {
	broker.UnimplementedDevice

	mu   sync.Mutex
	ops  []string
	last string
}

func (d *recordingDevice) record(op, sessionID string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, op)
	d.last = sessionID
	return "signed:" + sessionID, nil
}

func (d *recordingDevice) Sign(_ context.Context, sessionID, _ string) (string, error) {
	return d.record("sign", sessionID)
}

func (d *recordingDevice) GenerateKeyPair(_ context.Context, sessionID, _ string) (string, error) {
	return d.record("generateKeyPair", sessionID)
}

func TestDeviceDispatchBySessionID(t *testing.T) {
	impl := &recordingDevice{}
	facade := busservice.NewDevice(impl, logging.NewNop())

	result, derr := facade.Dispatch("sign", "session-42", `{"data":"..."}`)
	if derr != nil {
		t.Fatalf("Dispatch: %v", derr)
	}
	if result != "signed:session-42" {
		t.Fatalf("result = %q", result)
	}
	if impl.last != "session-42" {
		t.Fatalf("session id = %q", impl.last)
	}
}

func TestDeviceDispatchUnknownOperation(t *testing.T) {
	facade := busservice.NewDevice(&recordingDevice{}, logging.NewNop())

	_, derr := facade.Dispatch("frobnicate", "session-1", "{}")
	if derr == nil {
		t.Fatalf("Dispatch accepted an unknown operation")
	}
	if derr.Name != broker.DeviceInterface+".Error.Failed" {
		t.Fatalf("error name = %q", derr.Name)
	}
}

func TestDeviceDispatchMapsImplementationFailure(t *testing.T) {
	// UnimplementedDevice fails every operation it backs.
	facade := busservice.NewDevice(broker.UnimplementedDevice{}, logging.NewNop())

	_, derr := facade.Dispatch("decrypt", "session-1", "{}")
	if derr == nil {
		t.Fatalf("Dispatch succeeded on an unimplemented operation")
	}
	if derr.Name != broker.DeviceInterface+".Error.Failed" {
		t.Fatalf("error name = %q", derr.Name)
	}
}

func TestDeviceOperationsComplete(t *testing.T) {
	ops := busservice.DeviceOperations()
	if len(ops) != 18 {
		t.Fatalf("device facade exposes %d operations, want 18", len(ops))
	}

	seen := make(map[string]bool, len(ops))
	for _, op := range ops {
		if seen[op] {
			t.Fatalf("duplicate operation %q", op)
		}
		seen[op] = true
	}
	for _, required := range []string{"sign", "generateKeyPair", "decrypt", "mintSignedHttpRequest", "makeHttpRequestWithClientTls"} {
		if !seen[required] {
			t.Fatalf("operation %q missing", required)
		}
	}
}
