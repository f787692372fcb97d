// Package socketserver exposes the privileged broker over a local stream
// socket.
//
// The listener binds a world-connectable Unix socket (authorization is
// per-caller uid checking, not file mode), accepts until shutdown, and hands
// each connection to its own goroutine. A connection's caller uid is read
// from kernel peer credentials once at accept time and stays fixed for the
// connection's lifetime. Within a connection requests are strictly
// sequential: Reading, Dispatching, Writing, back to Reading.
package socketserver
