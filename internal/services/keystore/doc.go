// Package keystore manages the device identity: the X25519 keypair and the
// device id attached to every API request.
//
// The identity is generated once, lazily, and persisted via the
// domain.DeviceStore. It is never regenerated while a valid identity is
// stored, since any session bound to the old key would be orphaned.
package keystore
