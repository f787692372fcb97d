// Package proto defines the wire representation of one logical broker
// request and the framing rules for the stream socket.
//
// A request is a single UTF-8 JSON object whose only key is the operation
// name and whose value is a three-element string array: protocol version,
// correlation id, request payload. There is no length prefix: the decoder
// attempts a full-buffer parse on every arrival and treats any parse failure
// as "need more data". The protocol therefore supports exactly one in-flight
// message per connection and is not safe for pipelining.
//
// Responses are the raw bytes of the result string with no terminator;
// completion is inferred by the reader (half-close or chunk heuristic).
package proto
