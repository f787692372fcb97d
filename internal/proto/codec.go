package proto

import (
	"bytes"
	"encoding/json"
)

// Decode attempts to parse one complete request from buf. It reports
// ok=false — "no message yet" — for any buffer that is not exactly one
// complete, well-formed request document: partial data, trailing data,
// unknown operations, and malformed tuples all look identical to an
// incomplete read. Callers retry with a larger buffer; on success they must
// discard the entire buffer.
//
// A consequence, kept deliberately: a malformed one-shot message never
// surfaces a framing error and leaves its connection waiting until the peer
// closes.
func Decode(buf []byte) (*Request, bool) {
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.DisallowUnknownFields()

	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	if _, _, ok := req.Operation(); !ok {
		return nil, false
	}
	return &req, true
}

// Encode serializes the request as a single JSON document.
func (r *Request) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// EncodeResponse returns the wire form of a result string: its raw bytes,
// no envelope, no terminator.
func EncodeResponse(result string) []byte {
	return []byte(result)
}
