package testsupport

import (
	"context"
	"sync"
	"time"
)

// BrokerCall records one dispatched broker operation.
type BrokerCall struct {
	Op              string
	ProtocolVersion string
	CorrelationID   string
	RequestJSON     string
	UID             uint32
}

// StubBroker implements the broker contract by recording calls and replying
// from a canned table. Safe for concurrent use.
type StubBroker struct {
	mu    sync.Mutex
	calls []BrokerCall

	// Results maps operation name to the response string. Operations absent
	// from the map answer with Result.
	Results map[string]string
	Result  string
	// Err, when set, fails every call.
	Err error
	// Delay stalls each call before answering, for timeout tests.
	Delay time.Duration
}

// Calls returns a copy of the recorded calls in arrival order.
func (s *StubBroker) Calls() []BrokerCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]BrokerCall, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *StubBroker) invoke(ctx context.Context, op, protocolVersion, correlationID, requestJSON string, uid uint32) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, BrokerCall{
		Op:              op,
		ProtocolVersion: protocolVersion,
		CorrelationID:   correlationID,
		RequestJSON:     requestJSON,
		UID:             uid,
	})
	result, ok := s.Results[op]
	if !ok {
		result = s.Result
	}
	err := s.Err
	delay := s.Delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return result, nil
}

func (s *StubBroker) AcquireTokenInteractively(ctx context.Context, pv, cid, rj string, uid uint32) (string, error) {
	return s.invoke(ctx, "acquireTokenInteractively", pv, cid, rj, uid)
}

func (s *StubBroker) AcquireTokenSilently(ctx context.Context, pv, cid, rj string, uid uint32) (string, error) {
	return s.invoke(ctx, "acquireTokenSilently", pv, cid, rj, uid)
}

func (s *StubBroker) GetAccounts(ctx context.Context, pv, cid, rj string, uid uint32) (string, error) {
	return s.invoke(ctx, "getAccounts", pv, cid, rj, uid)
}

func (s *StubBroker) RemoveAccount(ctx context.Context, pv, cid, rj string, uid uint32) (string, error) {
	return s.invoke(ctx, "removeAccount", pv, cid, rj, uid)
}

func (s *StubBroker) AcquirePrtSsoCookie(ctx context.Context, pv, cid, rj string, uid uint32) (string, error) {
	return s.invoke(ctx, "acquirePrtSsoCookie", pv, cid, rj, uid)
}

func (s *StubBroker) GenerateSignedHTTPRequest(ctx context.Context, pv, cid, rj string, uid uint32) (string, error) {
	return s.invoke(ctx, "generateSignedHttpRequest", pv, cid, rj, uid)
}

func (s *StubBroker) CancelInteractiveFlow(ctx context.Context, pv, cid, rj string, uid uint32) (string, error) {
	return s.invoke(ctx, "cancelInteractiveFlow", pv, cid, rj, uid)
}

func (s *StubBroker) GetLinuxBrokerVersion(ctx context.Context, pv, cid, rj string, uid uint32) (string, error) {
	return s.invoke(ctx, "getLinuxBrokerVersion", pv, cid, rj, uid)
}
