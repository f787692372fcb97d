package socketserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"brokerd/internal/audit"
	"brokerd/internal/broker"
	"brokerd/internal/creds"
	"brokerd/internal/logging"
	"brokerd/internal/proto"
)

// readChunkSize is the per-read buffer size for connection handlers.
const readChunkSize = 4096

// Server accepts broker requests over a Unix stream socket.
type Server struct {
	path   string
	broker broker.Broker
	audit  *audit.Log
	logger *slog.Logger

	listener *net.UnixListener

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New binds the socket at path and prepares the server. Bind failure is
// fatal to startup. The broker handle is shared by every connection handler
// and must tolerate concurrent invocation.
func New(ctx context.Context, path string, b broker.Broker, auditLog *audit.Log, logger *slog.Logger) (*Server, error) {
	if b == nil {
		return nil, errors.New("socket server requires a broker")
	}
	logger = logging.WithComponent(logger, "socketserver")

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	// The socket must be connectable by any local user; uid checking at
	// accept time is the authorization boundary, not file mode. The umask
	// is relaxed around the bind only.
	var listener *net.UnixListener
	if err := withUmask(0, func() error {
		l, lerr := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
		listener = l
		return lerr
	}); err != nil {
		return nil, fmt.Errorf("bind socket %s: %w", path, err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:     path,
		broker:   b,
		audit:    auditLog,
		logger:   logger,
		listener: listener,
		ctx:      serverCtx,
		cancel:   cancel,
	}, nil
}

// Serve starts the accept loop. It returns immediately; connections are
// handled until Close or context cancellation. Accept errors are logged and
// the loop continues; handler failures never affect the listener or other
// connections.
func (s *Server) Serve() {
	s.logger.Info("broker socket listening", logging.String(logging.FieldSocket, s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.AcceptUnix()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}

			uid, err := creds.PeerUID(conn)
			if err != nil {
				// No resolvable identity means nothing may dispatch on
				// this connection.
				s.logger.Warn("rejecting connection without peer credentials", logging.Error(err))
				_ = conn.Close()
				continue
			}

			s.wg.Add(1)
			go func(c *net.UnixConn, callerUID uint32) {
				defer s.wg.Done()
				s.handle(c, callerUID)
			}(conn, uid)
		}
	}()
}

// Close stops accepting, waits for in-flight handlers to drain, and removes
// the socket file. Running handlers are never forcibly cancelled.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket file",
			logging.String(logging.FieldSocket, s.path),
			logging.Error(err))
	}
}

// handle runs one connection's request loop: read until a complete request
// decodes, dispatch it under the caller's fixed uid, write the raw result,
// repeat. Any IO or dispatch error is terminal for this connection only.
func (s *Server) handle(conn *net.UnixConn, uid uint32) {
	defer conn.Close()

	logger := s.logger.With(logging.Uint64(logging.FieldUID, uint64(uid)))
	logger.Debug("connection accepted")

	buf := make([]byte, 0, readChunkSize)
	chunk := make([]byte, readChunkSize)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			if req, ok := proto.Decode(buf); ok {
				// The decoder consumed the whole document; the buffer is
				// discarded wholesale. One in-flight request per
				// connection, so nothing legitimate is lost.
				buf = buf[:0]
				if !s.respond(conn, req, uid, logger) {
					return
				}
			}
		}
		if err != nil {
			switch {
			case errors.Is(err, io.EOF) && len(buf) == 0:
				logger.Debug("client disconnected")
			case errors.Is(err, io.EOF):
				logger.Debug("client disconnected with undecodable pending bytes",
					logging.Int("pending", len(buf)))
			default:
				logger.Warn("connection read failed", logging.Error(err))
			}
			return
		}
	}
}

// respond dispatches one decoded request and writes its result. It reports
// whether the connection may continue.
func (s *Server) respond(conn *net.UnixConn, req *proto.Request, uid uint32, logger *slog.Logger) bool {
	op, args, ok := req.Operation()
	if !ok {
		logger.Warn("request with no active variant")
		return false
	}

	opLogger := logger.With(
		logging.String(logging.FieldOperation, op),
		logging.String(logging.FieldCorrelationID, args.CorrelationID))

	// Dispatch deliberately does not use the server context: shutdown
	// stops new accepts while in-flight work drains on its own.
	result, err := broker.Dispatch(context.Background(), s.broker, op, args, uid)
	s.record(op, args.CorrelationID, uid, err, opLogger)
	if err != nil {
		// No error envelope exists on this transport. The connection is
		// closed and the peer observes the half-close as a failed call.
		opLogger.Warn("dispatch failed", logging.Error(err))
		return false
	}

	if _, err := conn.Write(proto.EncodeResponse(result)); err != nil {
		opLogger.Warn("response write failed", logging.Error(err))
		return false
	}
	opLogger.Debug("response written", logging.Int("bytes", len(result)))
	return true
}

func (s *Server) record(op, correlationID string, uid uint32, dispatchErr error, logger *slog.Logger) {
	outcome := audit.OutcomeOK
	if dispatchErr != nil {
		switch broker.AsStatus(dispatchErr).Code {
		case broker.CodeDeclined, broker.CodeUnauthorized:
			outcome = audit.OutcomeDeclined
		case broker.CodeTimeout:
			outcome = audit.OutcomeTimeout
		default:
			outcome = audit.OutcomeFailed
		}
	}
	err := s.audit.Record(context.Background(), audit.Entry{
		Transport:     audit.TransportSocket,
		Operation:     op,
		UID:           uid,
		CorrelationID: correlationID,
		Outcome:       outcome,
	})
	if err != nil {
		logger.Warn("audit record failed", logging.Error(err))
	}
}
