package creds

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"golang.org/x/sys/unix"
)

// Resolver maps a bus sender address to the numeric uid owning it. The bus
// supplies sender identity per message, so implementations are queried on
// every call.
type Resolver interface {
	CallerUID(ctx context.Context, sender string) (uint32, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, sender string) (uint32, error)

func (f ResolverFunc) CallerUID(ctx context.Context, sender string) (uint32, error) {
	return f(ctx, sender)
}

// PeerUID reads the kernel-supplied credentials of the process on the other
// end of a Unix stream connection. Called once at accept time; the result is
// fixed for the connection's lifetime.
func PeerUID(conn *net.UnixConn) (uint32, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return 0, fmt.Errorf("raw connection: %w", err)
	}

	var (
		cred    *unix.Ucred
		credErr error
	)
	if err := raw.Control(func(fd uintptr) {
		cred, credErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	}); err != nil {
		return 0, fmt.Errorf("control raw connection: %w", err)
	}
	if credErr != nil {
		return 0, fmt.Errorf("read peer credentials: %w", credErr)
	}
	return cred.Uid, nil
}

// BusResolver resolves sender uids through the bus daemon's
// GetConnectionUnixUser method.
type BusResolver struct {
	conn    *dbus.Conn
	timeout time.Duration
}

// NewBusResolver wraps an established bus connection. timeout bounds each
// daemon query.
func NewBusResolver(conn *dbus.Conn, timeout time.Duration) (*BusResolver, error) {
	if conn == nil {
		return nil, errors.New("bus resolver requires a connection")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &BusResolver{conn: conn, timeout: timeout}, nil
}

// CallerUID asks the bus daemon for the uid owning sender. An empty sender
// or a failed query yields an error, never a fallback identity.
func (r *BusResolver) CallerUID(ctx context.Context, sender string) (uint32, error) {
	if strings.TrimSpace(sender) == "" {
		return 0, errors.New("bus message carried no sender")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var uid uint32
	obj := r.conn.Object("org.freedesktop.DBus", "/org/freedesktop/DBus")
	call := obj.CallWithContext(ctx, "org.freedesktop.DBus.GetConnectionUnixUser", 0, sender)
	if call.Err != nil {
		return 0, fmt.Errorf("resolve uid for sender %s: %w", sender, call.Err)
	}
	if err := call.Store(&uid); err != nil {
		return 0, fmt.Errorf("decode uid for sender %s: %w", sender, err)
	}
	return uid, nil
}
