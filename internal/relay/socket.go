package relay

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"brokerd/internal/broker"
	"brokerd/internal/proto"
)

// SocketRelay forwards calls over the raw stream socket. Each call dials a
// fresh connection, writes one serialized envelope, and reads the response
// with a fixed-size chunk loop.
//
// Message boundaries on this leg are inferred from chunk sizes, not a length
// field: a full-size chunk means more follows, a short chunk means the
// message is complete. A response whose length is an exact multiple of the
// chunk size is therefore misread as incomplete and times out. Known
// limitation; do not patch silently.
type SocketRelay struct {
	path      string
	timeout   time.Duration
	chunkSize int
}

// NewSocketRelay builds the bus-to-socket strategy. timeout bounds the
// whole call; chunkSize is the fixed read size of the boundary heuristic.
func NewSocketRelay(path string, timeout time.Duration, chunkSize int) *SocketRelay {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if chunkSize <= 0 {
		chunkSize = 4096
	}
	return &SocketRelay{path: path, timeout: timeout, chunkSize: chunkSize}
}

// Call implements Relay. The connection is released on every exit path,
// including error and timeout.
func (r *SocketRelay) Call(ctx context.Context, op string, args proto.Tuple) (string, error) {
	req, err := proto.New(op, args)
	if err != nil {
		return "", broker.Failed("%v", err)
	}
	payload, err := req.Encode()
	if err != nil {
		return "", broker.Failed("encode %s request: %v", op, err)
	}

	deadline := time.Now().Add(r.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	dialer := net.Dialer{Timeout: r.timeout, Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "unix", r.path)
	if err != nil {
		return "", broker.Failed("connect broker socket: %v", err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(deadline); err != nil {
		return "", broker.Failed("set connection deadline: %v", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return "", broker.Failed("write %s request: %v", op, err)
	}

	result, err := r.readResponse(conn)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return "", broker.Timeout("%s: no complete response within %s", op, r.timeout)
		}
		return "", broker.Failed("read %s response: %v", op, err)
	}
	return result, nil
}

// readResponse runs the chunk loop: a zero-length read before any data has
// arrived means keep waiting, a full chunk means more follows, a short chunk
// completes the message.
func (r *SocketRelay) readResponse(conn net.Conn) (string, error) {
	var response []byte
	chunk := make([]byte, r.chunkSize)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			response = append(response, chunk[:n]...)
			if n < r.chunkSize {
				return string(response), nil
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(response) > 0 {
				// Peer half-closed after a chunk-aligned response.
				return string(response), nil
			}
			return "", err
		}
		// Zero bytes, no error: nothing has arrived yet.
	}
}
