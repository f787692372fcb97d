package broker

// Bus identities of the three broker endpoints. The session and device
// names mirror the Microsoft identity broker so existing desktop clients
// (browsers, Teams, linux-entra-sso) find the service where they expect it.
const (
	SystemBusName    = "org.samba.himmelblau"
	SystemObjectPath = "/org/samba/himmelblau"
	SystemInterface  = "org.samba.himmelblau"

	SessionBusName    = "com.microsoft.identity.broker1"
	SessionObjectPath = "/com/microsoft/identity/broker1"
	SessionInterface  = "com.microsoft.identity.Broker1"

	DeviceBusName    = "com.microsoft.identity.DeviceBroker1"
	DeviceObjectPath = "/com/microsoft/identity/devicebroker1"
	DeviceInterface  = "com.microsoft.identity.DeviceBroker1"
)
