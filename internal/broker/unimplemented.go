package broker

import (
	"context"
	"encoding/json"
)

// Unimplemented is the development stand-in wired at startup when no real
// broker implementation is linked in. Version reporting works; every
// credential operation fails with a status the caller can render.
type Unimplemented struct{}

var _ Broker = Unimplemented{}

func (Unimplemented) AcquireTokenInteractively(context.Context, string, string, string, uint32) (string, error) {
	return "", Failed("acquireTokenInteractively is not implemented")
}

func (Unimplemented) AcquireTokenSilently(context.Context, string, string, string, uint32) (string, error) {
	return "", Failed("acquireTokenSilently is not implemented")
}

func (Unimplemented) GetAccounts(context.Context, string, string, string, uint32) (string, error) {
	return "", Failed("getAccounts is not implemented")
}

func (Unimplemented) RemoveAccount(context.Context, string, string, string, uint32) (string, error) {
	return "", Failed("removeAccount is not implemented")
}

func (Unimplemented) AcquirePrtSsoCookie(context.Context, string, string, string, uint32) (string, error) {
	return "", Failed("acquirePrtSsoCookie is not implemented")
}

func (Unimplemented) GenerateSignedHTTPRequest(context.Context, string, string, string, uint32) (string, error) {
	return "", Failed("generateSignedHttpRequest is not implemented")
}

func (Unimplemented) CancelInteractiveFlow(context.Context, string, string, string, uint32) (string, error) {
	return "", Failed("cancelInteractiveFlow is not implemented")
}

func (Unimplemented) GetLinuxBrokerVersion(context.Context, string, string, string, uint32) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"linuxBrokerVersion": Version,
		"protocolVersion":    ProtocolVersion,
	})
	if err != nil {
		return "", Failed("encode version: %v", err)
	}
	return string(payload), nil
}

// UnimplementedDevice is the development stand-in for the key-management
// contract. Every operation fails.
type UnimplementedDevice struct{}

var _ DeviceBroker = UnimplementedDevice{}

func (UnimplementedDevice) Sign(context.Context, string, string) (string, error) {
	return "", Failed("sign is not implemented")
}

func (UnimplementedDevice) GenerateKeyPair(context.Context, string, string) (string, error) {
	return "", Failed("generateKeyPair is not implemented")
}

func (UnimplementedDevice) LoadKeyPair(context.Context, string, string) (string, error) {
	return "", Failed("loadKeyPair is not implemented")
}

func (UnimplementedDevice) PersistKey(context.Context, string, string) (string, error) {
	return "", Failed("persistKey is not implemented")
}

func (UnimplementedDevice) GenerateDerivedKey(context.Context, string, string) (string, error) {
	return "", Failed("generateDerivedKey is not implemented")
}

func (UnimplementedDevice) DeleteKey(context.Context, string, string) (string, error) {
	return "", Failed("deleteKey is not implemented")
}

func (UnimplementedDevice) Decrypt(context.Context, string, string) (string, error) {
	return "", Failed("decrypt is not implemented")
}

func (UnimplementedDevice) GeneratePKCS10CertSigningRequest(context.Context, string, string) (string, error) {
	return "", Failed("generatePKCS10CertSigningRequest is not implemented")
}

func (UnimplementedDevice) AsymmetricKeyExists(context.Context, string, string) (string, error) {
	return "", Failed("asymmetricKeyExists is not implemented")
}

func (UnimplementedDevice) AsymmetricKeyWithThumbprintExists(context.Context, string, string) (string, error) {
	return "", Failed("asymmetricKeyWithThumbprintExists is not implemented")
}

func (UnimplementedDevice) GetAsymmetricKeyThumbprint(context.Context, string, string) (string, error) {
	return "", Failed("getAsymmetricKeyThumbprint is not implemented")
}

func (UnimplementedDevice) GenerateAsymmetricKey(context.Context, string, string) (string, error) {
	return "", Failed("generateAsymmetricKey is not implemented")
}

func (UnimplementedDevice) GetAsymmetricKeyCreationDate(context.Context, string, string) (string, error) {
	return "", Failed("getAsymmetricKeyCreationDate is not implemented")
}

func (UnimplementedDevice) ClearAsymmetricKey(context.Context, string, string) (string, error) {
	return "", Failed("clearAsymmetricKey is not implemented")
}

func (UnimplementedDevice) GetRequestConfirmation(context.Context, string, string) (string, error) {
	return "", Failed("getRequestConfirmation is not implemented")
}

func (UnimplementedDevice) MintSignedAccessToken(context.Context, string, string) (string, error) {
	return "", Failed("mintSignedAccessToken is not implemented")
}

func (UnimplementedDevice) MintSignedHTTPRequest(context.Context, string, string) (string, error) {
	return "", Failed("mintSignedHttpRequest is not implemented")
}

func (UnimplementedDevice) MakeHTTPRequestWithClientTLS(context.Context, string, string) (string, error) {
	return "", Failed("makeHttpRequestWithClientTls is not implemented")
}
