package types

// DeviceID is the opaque identifier sent with every request from this device.
type DeviceID string

// String returns the string form of the device id.
func (id DeviceID) String() string { return string(id) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// StatusKey names a sender list tab (ACTIVE, DRAFT, ...).
type StatusKey string

// String returns the string form of the status key.
func (k StatusKey) String() string { return string(k) }

// Known sender list tabs.
const (
	StatusActive   StatusKey = "ACTIVE"
	StatusDraft    StatusKey = "DRAFT"
	StatusPending  StatusKey = "PENDING"
	StatusRejected StatusKey = "REJECTED"
)
