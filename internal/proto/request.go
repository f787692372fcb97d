package proto

import (
	"encoding/json"
	"fmt"
)

// Wire operation names understood by the privileged endpoint.
const (
	OpAcquireTokenInteractively = "acquireTokenInteractively"
	OpAcquireTokenSilently      = "acquireTokenSilently"
	OpGetAccounts               = "getAccounts"
	OpRemoveAccount             = "removeAccount"
	OpAcquirePrtSsoCookie       = "acquirePrtSsoCookie"
	OpGenerateSignedHTTPRequest = "generateSignedHttpRequest"
	OpCancelInteractiveFlow     = "cancelInteractiveFlow"
	OpGetLinuxBrokerVersion     = "getLinuxBrokerVersion"
)

var operations = []string{
	OpAcquireTokenInteractively,
	OpAcquireTokenSilently,
	OpGetAccounts,
	OpRemoveAccount,
	OpAcquirePrtSsoCookie,
	OpGenerateSignedHTTPRequest,
	OpCancelInteractiveFlow,
	OpGetLinuxBrokerVersion,
}

// Operations returns the known operation names in wire order.
func Operations() []string {
	out := make([]string, len(operations))
	copy(out, operations)
	return out
}

// KnownOperation reports whether name is a valid wire operation.
func KnownOperation(name string) bool {
	for _, op := range operations {
		if op == name {
			return true
		}
	}
	return false
}

// Tuple carries the three string fields every request variant shares. On the
// wire it is a three-element JSON string array.
type Tuple struct {
	ProtocolVersion string
	CorrelationID   string
	RequestJSON     string
}

// MarshalJSON encodes the tuple as ["protocol_version","correlation_id","request_json"].
func (t Tuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]string{t.ProtocolVersion, t.CorrelationID, t.RequestJSON})
}

// UnmarshalJSON rejects anything but an exactly-three-element string array.
func (t *Tuple) UnmarshalJSON(data []byte) error {
	var fields []string
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) != 3 {
		return fmt.Errorf("request tuple must have 3 elements, got %d", len(fields))
	}
	t.ProtocolVersion = fields[0]
	t.CorrelationID = fields[1]
	t.RequestJSON = fields[2]
	return nil
}

// Request is the tagged union of operation kinds. Exactly one variant is
// set per message.
type Request struct {
	AcquireTokenInteractively *Tuple `json:"acquireTokenInteractively,omitempty"`
	AcquireTokenSilently      *Tuple `json:"acquireTokenSilently,omitempty"`
	GetAccounts               *Tuple `json:"getAccounts,omitempty"`
	RemoveAccount             *Tuple `json:"removeAccount,omitempty"`
	AcquirePrtSsoCookie       *Tuple `json:"acquirePrtSsoCookie,omitempty"`
	GenerateSignedHTTPRequest *Tuple `json:"generateSignedHttpRequest,omitempty"`
	CancelInteractiveFlow     *Tuple `json:"cancelInteractiveFlow,omitempty"`
	GetLinuxBrokerVersion     *Tuple `json:"getLinuxBrokerVersion,omitempty"`
}

// New builds a request for the named operation.
func New(op string, args Tuple) (*Request, error) {
	req := &Request{}
	switch op {
	case OpAcquireTokenInteractively:
		req.AcquireTokenInteractively = &args
	case OpAcquireTokenSilently:
		req.AcquireTokenSilently = &args
	case OpGetAccounts:
		req.GetAccounts = &args
	case OpRemoveAccount:
		req.RemoveAccount = &args
	case OpAcquirePrtSsoCookie:
		req.AcquirePrtSsoCookie = &args
	case OpGenerateSignedHTTPRequest:
		req.GenerateSignedHTTPRequest = &args
	case OpCancelInteractiveFlow:
		req.CancelInteractiveFlow = &args
	case OpGetLinuxBrokerVersion:
		req.GetLinuxBrokerVersion = &args
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
	return req, nil
}

// Operation returns the active variant's wire name and arguments. ok is
// false unless exactly one variant is set.
func (r *Request) Operation() (string, Tuple, bool) {
	var (
		name  string
		args  *Tuple
		count int
	)
	for op, tuple := range r.variants() {
		if tuple != nil {
			name = op
			args = tuple
			count++
		}
	}
	if count != 1 {
		return "", Tuple{}, false
	}
	return name, *args, true
}

func (r *Request) variants() map[string]*Tuple {
	return map[string]*Tuple{
		OpAcquireTokenInteractively: r.AcquireTokenInteractively,
		OpAcquireTokenSilently:      r.AcquireTokenSilently,
		OpGetAccounts:               r.GetAccounts,
		OpRemoveAccount:             r.RemoveAccount,
		OpAcquirePrtSsoCookie:       r.AcquirePrtSsoCookie,
		OpGenerateSignedHTTPRequest: r.GenerateSignedHTTPRequest,
		OpCancelInteractiveFlow:     r.CancelInteractiveFlow,
		OpGetLinuxBrokerVersion:     r.GetLinuxBrokerVersion,
	}
}
