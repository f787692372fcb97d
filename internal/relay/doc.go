// Package relay forwards session-facade calls to the privileged broker
// endpoint.
//
// Two interchangeable strategies implement one contract: a bus-to-bus leg
// that invokes the system-bus facade, and a bus-to-socket leg that speaks
// the raw stream protocol. Every call opens a fresh connection, enforces its
// own timeout, and releases the connection on every exit path, so no
// cross-call correlation exists.
package relay
