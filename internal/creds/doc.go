// Package creds resolves the operating-system identity of a broker caller.
//
// Two transports, one contract: socket connections carry kernel peer
// credentials fixed for the connection's lifetime, while bus callers are
// identified per message by asking the bus daemon which uid owns the sender
// address. A caller whose identity cannot be resolved is never given a
// default uid; resolution failure must decline the request.
package creds
