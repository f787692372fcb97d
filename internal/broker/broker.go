package broker

import "context"

// Protocol and broker version constants reported by GetLinuxBrokerVersion.
const (
	ProtocolVersion = "0.1"
	Version         = "0.1.0"
)

// Broker is the privileged identity-broker contract. Every operation receives
// the caller's resolved OS uid; implementations enforce per-user isolation
// with it. Implementations must be safe for concurrent use: one shared
// instance serves all connections and bus calls.
type Broker interface {
	AcquireTokenInteractively(ctx context.Context, protocolVersion, correlationID, requestJSON string, uid uint32) (string, error)
	AcquireTokenSilently(ctx context.Context, protocolVersion, correlationID, requestJSON string, uid uint32) (string, error)
	GetAccounts(ctx context.Context, protocolVersion, correlationID, requestJSON string, uid uint32) (string, error)
	RemoveAccount(ctx context.Context, protocolVersion, correlationID, requestJSON string, uid uint32) (string, error)
	AcquirePrtSsoCookie(ctx context.Context, protocolVersion, correlationID, requestJSON string, uid uint32) (string, error)
	GenerateSignedHTTPRequest(ctx context.Context, protocolVersion, correlationID, requestJSON string, uid uint32) (string, error)
	CancelInteractiveFlow(ctx context.Context, protocolVersion, correlationID, requestJSON string, uid uint32) (string, error)
	GetLinuxBrokerVersion(ctx context.Context, protocolVersion, correlationID, requestJSON string, uid uint32) (string, error)
}

// DeviceBroker is the privileged key-management contract. Callers are
// identified by an opaque session id whose meaning belongs to the
// implementation; uid-equivalent authorization is the implementation's
// responsibility, not the facade's.
type DeviceBroker interface {
	Sign(ctx context.Context, sessionID, requestJSON string) (string, error)
	GenerateKeyPair(ctx context.Context, sessionID, requestJSON string) (string, error)
	LoadKeyPair(ctx context.Context, sessionID, requestJSON string) (string, error)
	PersistKey(ctx context.Context, sessionID, requestJSON string) (string, error)
	GenerateDerivedKey(ctx context.Context, sessionID, requestJSON string) (string, error)
	DeleteKey(ctx context.Context, sessionID, requestJSON string) (string, error)
	Decrypt(ctx context.Context, sessionID, requestJSON string) (string, error)
	GeneratePKCS10CertSigningRequest(ctx context.Context, sessionID, requestJSON string) (string, error)
	AsymmetricKeyExists(ctx context.Context, sessionID, requestJSON string) (string, error)
	AsymmetricKeyWithThumbprintExists(ctx context.Context, sessionID, requestJSON string) (string, error)
	GetAsymmetricKeyThumbprint(ctx context.Context, sessionID, requestJSON string) (string, error)
	GenerateAsymmetricKey(ctx context.Context, sessionID, requestJSON string) (string, error)
	GetAsymmetricKeyCreationDate(ctx context.Context, sessionID, requestJSON string) (string, error)
	ClearAsymmetricKey(ctx context.Context, sessionID, requestJSON string) (string, error)
	GetRequestConfirmation(ctx context.Context, sessionID, requestJSON string) (string, error)
	MintSignedAccessToken(ctx context.Context, sessionID, requestJSON string) (string, error)
	MintSignedHTTPRequest(ctx context.Context, sessionID, requestJSON string) (string, error)
	MakeHTTPRequestWithClientTLS(ctx context.Context, sessionID, requestJSON string) (string, error)
}
