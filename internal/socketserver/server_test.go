package socketserver_test

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"brokerd/internal/audit"
	"brokerd/internal/logging"
	"brokerd/internal/proto"
	"brokerd/internal/socketserver"
	"brokerd/internal/testsupport"
)

func startServer(t *testing.T, stub *testsupport.StubBroker) (string, *audit.Log) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	log := testsupport.MustOpenAudit(t, cfg)

	srv, err := socketserver.New(context.Background(), cfg.Socket.Path, stub, log, logging.NewNop())
	if err != nil {
		t.Fatalf("socketserver.New: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)
	return cfg.Socket.Path, log
}

func call(t *testing.T, path, op string, args proto.Tuple) string {
	t.Helper()

	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	return callOn(t, conn, op, args)
}

func callOn(t *testing.T, conn net.Conn, op string, args proto.Tuple) string {
	t.Helper()

	req, err := proto.New(op, args)
	if err != nil {
		t.Fatalf("proto.New: %v", err)
	}
	payload, err := req.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := conn.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	buf := make([]byte, 64*1024)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("read: %v", err)
	}
	return string(buf[:n])
}

func TestServeDispatchesAndResponds(t *testing.T) {
	stub := &testsupport.StubBroker{Result: `{"accounts":[]}`}
	path, _ := startServer(t, stub)

	got := call(t, path, proto.OpGetAccounts, proto.Tuple{
		ProtocolVersion: "0.1",
		CorrelationID:   "corr-1",
		RequestJSON:     "{}",
	})
	if got != `{"accounts":[]}` {
		t.Fatalf("response = %q", got)
	}

	calls := stub.Calls()
	if len(calls) != 1 {
		t.Fatalf("broker saw %d calls, want 1", len(calls))
	}
	if calls[0].Op != proto.OpGetAccounts || calls[0].CorrelationID != "corr-1" {
		t.Fatalf("recorded call = %+v", calls[0])
	}
	if want := uint32(os.Getuid()); calls[0].UID != want {
		t.Fatalf("dispatched uid = %d, want %d", calls[0].UID, want)
	}
}

func TestServeRawWireExchange(t *testing.T) {
	stub := &testsupport.StubBroker{Result: `{"token":"abc"}`}
	path, _ := startServer(t, stub)

	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	wire := `{"acquireTokenSilently":["0.1","corr-123","{\"scope\":\"x\"}"]}`
	if _, err := conn.Write([]byte(wire)); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("read: %v", err)
	}
	// The result string arrives byte for byte, no envelope.
	if string(buf[:n]) != `{"token":"abc"}` {
		t.Fatalf("response = %q", buf[:n])
	}

	calls := stub.Calls()
	if len(calls) != 1 {
		t.Fatalf("broker saw %d calls", len(calls))
	}
	if calls[0].Op != proto.OpAcquireTokenSilently ||
		calls[0].ProtocolVersion != "0.1" ||
		calls[0].CorrelationID != "corr-123" ||
		calls[0].RequestJSON != `{"scope":"x"}` {
		t.Fatalf("dispatched call = %+v", calls[0])
	}
}

func TestServeHandlesFragmentedRequest(t *testing.T) {
	stub := &testsupport.StubBroker{Result: "ok"}
	path, _ := startServer(t, stub)

	req, err := proto.New(proto.OpAcquireTokenSilently, proto.Tuple{
		ProtocolVersion: "0.1",
		CorrelationID:   "frag",
		RequestJSON:     `{"account":"user@example.com"}`,
	})
	if err != nil {
		t.Fatalf("proto.New: %v", err)
	}
	payload, err := req.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Dribble the request in small pieces with pauses so each arrives as a
	// separate read.
	for i := 0; i < len(payload); i += 7 {
		end := i + 7
		if end > len(payload) {
			end = len(payload)
		}
		if _, err := conn.Write(payload[i:end]); err != nil {
			t.Fatalf("write fragment: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("read: %v", err)
	}
	if string(buf[:n]) != "ok" {
		t.Fatalf("response = %q", buf[:n])
	}
}

func TestServeSequentialRequestsOnOneConnection(t *testing.T) {
	stub := &testsupport.StubBroker{Results: map[string]string{
		proto.OpGetAccounts:   "first",
		proto.OpRemoveAccount: "second",
	}}
	path, _ := startServer(t, stub)

	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if got := callOn(t, conn, proto.OpGetAccounts, proto.Tuple{CorrelationID: "a"}); got != "first" {
		t.Fatalf("first response = %q", got)
	}
	if got := callOn(t, conn, proto.OpRemoveAccount, proto.Tuple{CorrelationID: "b"}); got != "second" {
		t.Fatalf("second response = %q", got)
	}

	calls := stub.Calls()
	if len(calls) != 2 {
		t.Fatalf("broker saw %d calls, want 2", len(calls))
	}
	if calls[0].UID != calls[1].UID {
		t.Fatalf("uid changed between calls on one connection: %d vs %d", calls[0].UID, calls[1].UID)
	}
}

func TestServeConcurrentConnections(t *testing.T) {
	stub := &testsupport.StubBroker{Result: "done"}
	path, _ := startServer(t, stub)

	// A connection that never completes its request must not block others.
	stalled, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("dial stalled: %v", err)
	}
	defer stalled.Close()
	if _, err := stalled.Write([]byte(`{"getAccounts": ["0.1",`)); err != nil {
		t.Fatalf("write partial: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]string, 4)
	for i := range results {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot] = call(t, path, proto.OpGetLinuxBrokerVersion, proto.Tuple{CorrelationID: "conc"})
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != "done" {
			t.Fatalf("connection %d response = %q", i, got)
		}
	}
}

func TestServeClosesConnectionOnDispatchError(t *testing.T) {
	stub := &testsupport.StubBroker{Err: errors.New("backend down")}
	path, _ := startServer(t, stub)

	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	req, _ := proto.New(proto.OpGetAccounts, proto.Tuple{CorrelationID: "err"})
	payload, _ := req.Encode()
	if _, err := conn.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	buf := make([]byte, 64)
	n, err := conn.Read(buf)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF with no payload, got %d bytes err %v", n, err)
	}
}

func TestServeRecordsAudit(t *testing.T) {
	stub := &testsupport.StubBroker{Result: "ok"}
	path, log := startServer(t, stub)

	_ = call(t, path, proto.OpGetAccounts, proto.Tuple{CorrelationID: "audited"})

	deadline := time.Now().Add(2 * time.Second)
	for {
		entries, err := log.Recent(context.Background(), 5)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(entries) == 1 {
			if entries[0].Transport != audit.TransportSocket ||
				entries[0].Operation != proto.OpGetAccounts ||
				entries[0].CorrelationID != "audited" ||
				entries[0].Outcome != audit.OutcomeOK {
				t.Fatalf("audit entry = %+v", entries[0])
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("audit entry never recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCloseRemovesSocketFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	srv, err := socketserver.New(context.Background(), cfg.Socket.Path, &testsupport.StubBroker{}, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("socketserver.New: %v", err)
	}
	srv.Serve()
	srv.Close()

	if _, err := os.Stat(cfg.Socket.Path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("socket file still present after Close: %v", err)
	}
}

func TestSocketIsWorldConnectable(t *testing.T) {
	stub := &testsupport.StubBroker{}
	path, _ := startServer(t, stub)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat socket: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o777 {
		t.Fatalf("socket mode = %04o, want 0777", perm)
	}
}

func TestNewReplacesStaleSocket(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	stale, err := net.ListenUnix("unix", &net.UnixAddr{Name: cfg.Socket.Path, Net: "unix"})
	if err != nil {
		t.Fatalf("listen stale: %v", err)
	}
	stale.SetUnlinkOnClose(false)
	stale.Close()

	srv, err := socketserver.New(context.Background(), cfg.Socket.Path, &testsupport.StubBroker{Result: "ok"}, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("socketserver.New over stale socket: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)

	if got := call(t, cfg.Socket.Path, proto.OpGetAccounts, proto.Tuple{}); got != "ok" {
		t.Fatalf("response = %q", got)
	}
}
