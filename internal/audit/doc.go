// Package audit persists a trail of dispatched broker operations.
//
// Every privileged call is recorded with its transport, operation, resolved
// uid, correlation id, and outcome. Recording is best effort: a storage
// failure is logged by the caller and never fails the call it describes.
package audit
