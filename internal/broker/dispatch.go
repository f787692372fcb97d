package broker

import (
	"context"
	"fmt"

	"brokerd/internal/proto"
)

// Dispatch routes one decoded operation to the matching Broker method. Both
// transports funnel through here so operation names bind to methods in
// exactly one place.
func Dispatch(ctx context.Context, b Broker, op string, args proto.Tuple, uid uint32) (string, error) {
	switch op {
	case proto.OpAcquireTokenInteractively:
		return b.AcquireTokenInteractively(ctx, args.ProtocolVersion, args.CorrelationID, args.RequestJSON, uid)
	case proto.OpAcquireTokenSilently:
		return b.AcquireTokenSilently(ctx, args.ProtocolVersion, args.CorrelationID, args.RequestJSON, uid)
	case proto.OpGetAccounts:
		return b.GetAccounts(ctx, args.ProtocolVersion, args.CorrelationID, args.RequestJSON, uid)
	case proto.OpRemoveAccount:
		return b.RemoveAccount(ctx, args.ProtocolVersion, args.CorrelationID, args.RequestJSON, uid)
	case proto.OpAcquirePrtSsoCookie:
		return b.AcquirePrtSsoCookie(ctx, args.ProtocolVersion, args.CorrelationID, args.RequestJSON, uid)
	case proto.OpGenerateSignedHTTPRequest:
		return b.GenerateSignedHTTPRequest(ctx, args.ProtocolVersion, args.CorrelationID, args.RequestJSON, uid)
	case proto.OpCancelInteractiveFlow:
		return b.CancelInteractiveFlow(ctx, args.ProtocolVersion, args.CorrelationID, args.RequestJSON, uid)
	case proto.OpGetLinuxBrokerVersion:
		return b.GetLinuxBrokerVersion(ctx, args.ProtocolVersion, args.CorrelationID, args.RequestJSON, uid)
	default:
		return "", fmt.Errorf("unknown operation %q", op)
	}
}
