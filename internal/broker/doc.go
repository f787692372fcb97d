// Package broker defines the capability contracts implemented by the
// privileged identity broker and the declined/failed status vocabulary every
// transport collapses errors into.
//
// The interfaces are deliberately stringly typed: protocol payloads are
// opaque JSON documents owned by the broker implementation, and the relay
// layers pass them through untouched.
package broker
