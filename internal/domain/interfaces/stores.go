package interfaces

import domaintypes "paylink/internal/domain/types"

// DeviceStore persists the device identity.
type DeviceStore interface {
	LoadDevice() (domaintypes.DeviceIdentity, bool, error)
	SaveDevice(identity domaintypes.DeviceIdentity) error
	DeleteDevice() error
}

// SessionStore persists the session record.
type SessionStore interface {
	LoadSession() (domaintypes.SessionData, bool, error)
	SaveSession(session domaintypes.SessionData) error
}
