package types

// DeviceIdentity is the keypair and identifier one installation uses to
// authenticate requests and open responses. The private half never leaves
// the device.
type DeviceIdentity struct {
	DeviceID   DeviceID      `json:"device_id"`
	PublicKey  X25519Public  `json:"public_key"`
	PrivateKey X25519Private `json:"private_key"`
	CreatedUTC int64         `json:"created_utc"`
}

// Valid reports whether the identity has an id and both key halves.
func (d DeviceIdentity) Valid() bool {
	return d.DeviceID != "" && !d.PublicKey.IsZero() && !d.PrivateKey.IsZero()
}

// Credentials is what the API client attaches to every request.
type Credentials struct {
	DeviceID      DeviceID
	PublicKey     X25519Public
	Authorization string // bearer token; empty before login
}
