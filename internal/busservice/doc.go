// Package busservice exposes the broker dispatch facades on D-Bus.
//
// Three facades share one structure: a named interface, a fixed operation
// table, and translation of implementation results into a single string or a
// typed declined/failed error. The system facade resolves each caller's uid
// through the bus daemon before dispatching; the session facade forwards
// through the relay client; the device facade trusts the caller-supplied
// session id and leaves authorization to the implementation.
//
// Serving model: claim the well-known name (startup-fatal if already owned),
// export at the fixed object path, then handle calls for the process's
// lifetime. A bad call never tears down the service.
package busservice
