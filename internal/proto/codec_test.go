package proto_test

import (
	"bytes"
	"testing"

	"brokerd/internal/proto"
)

func TestDecodeCompleteRequest(t *testing.T) {
	payload := []byte(`{"acquireTokenSilently": ["0.1", "corr-1", "{\"account\":\"user@example.com\"}"]}`)

	req, ok := proto.Decode(payload)
	if !ok {
		t.Fatalf("Decode reported no message for a complete request")
	}
	op, args, ok := req.Operation()
	if !ok {
		t.Fatalf("Operation reported no active variant")
	}
	if op != proto.OpAcquireTokenSilently {
		t.Fatalf("operation = %q, want %q", op, proto.OpAcquireTokenSilently)
	}
	if args.ProtocolVersion != "0.1" {
		t.Fatalf("protocol version = %q, want %q", args.ProtocolVersion, "0.1")
	}
	if args.CorrelationID != "corr-1" {
		t.Fatalf("correlation id = %q, want %q", args.CorrelationID, "corr-1")
	}
	if args.RequestJSON != `{"account":"user@example.com"}` {
		t.Fatalf("request json = %q", args.RequestJSON)
	}
}

func TestDecodePartialBuffer(t *testing.T) {
	full := []byte(`{"getAccounts": ["0.1", "corr-2", "{}"]}`)

	for cut := 1; cut < len(full); cut++ {
		if _, ok := proto.Decode(full[:cut]); ok {
			t.Fatalf("Decode accepted a truncated buffer of %d bytes", cut)
		}
	}
	if _, ok := proto.Decode(full); !ok {
		t.Fatalf("Decode rejected the complete buffer")
	}
}

func TestDecodeRejectsUnknownOperation(t *testing.T) {
	payload := []byte(`{"launchMissiles": ["0.1", "corr-3", "{}"]}`)
	if _, ok := proto.Decode(payload); ok {
		t.Fatalf("Decode accepted an unknown operation")
	}
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	payload := []byte(`{"getAccounts": ["0.1", "corr-4", "{}"]}{"getAccounts": ["0.1", "corr-5", "{}"]}`)
	if _, ok := proto.Decode(payload); ok {
		t.Fatalf("Decode accepted a buffer with trailing data")
	}
}

func TestDecodeRejectsEmptyUnion(t *testing.T) {
	if _, ok := proto.Decode([]byte(`{}`)); ok {
		t.Fatalf("Decode accepted a request with no variant")
	}
}

func TestDecodeRejectsTwoVariants(t *testing.T) {
	payload := []byte(`{"getAccounts": ["0.1", "a", "{}"], "removeAccount": ["0.1", "b", "{}"]}`)
	if _, ok := proto.Decode(payload); ok {
		t.Fatalf("Decode accepted a request with two variants")
	}
}

func TestDecodeRejectsShortTuple(t *testing.T) {
	payload := []byte(`{"getAccounts": ["0.1", "corr-6"]}`)
	if _, ok := proto.Decode(payload); ok {
		t.Fatalf("Decode accepted a two-element tuple")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, op := range proto.Operations() {
		req, err := proto.New(op, proto.Tuple{
			ProtocolVersion: "0.1",
			CorrelationID:   "round-trip",
			RequestJSON:     `{"key":"value"}`,
		})
		if err != nil {
			t.Fatalf("New(%s): %v", op, err)
		}
		payload, err := req.Encode()
		if err != nil {
			t.Fatalf("Encode(%s): %v", op, err)
		}
		decoded, ok := proto.Decode(payload)
		if !ok {
			t.Fatalf("Decode rejected encoded %s request", op)
		}
		gotOp, args, ok := decoded.Operation()
		if !ok || gotOp != op {
			t.Fatalf("round trip of %s yielded %q (ok=%v)", op, gotOp, ok)
		}
		if args.CorrelationID != "round-trip" {
			t.Fatalf("round trip of %s lost the correlation id", op)
		}
	}
}

func TestNewRejectsUnknownOperation(t *testing.T) {
	if _, err := proto.New("frobnicate", proto.Tuple{}); err == nil {
		t.Fatalf("New accepted an unknown operation")
	}
}

func TestEncodeResponseIsRawBytes(t *testing.T) {
	result := `{"accounts":[]}`
	if got := proto.EncodeResponse(result); !bytes.Equal(got, []byte(result)) {
		t.Fatalf("EncodeResponse = %q, want the raw result bytes", got)
	}
}

func TestKnownOperation(t *testing.T) {
	if !proto.KnownOperation(proto.OpGetLinuxBrokerVersion) {
		t.Fatalf("KnownOperation rejected %s", proto.OpGetLinuxBrokerVersion)
	}
	if proto.KnownOperation("GetAccounts") {
		t.Fatalf("KnownOperation accepted a non-wire spelling")
	}
}
