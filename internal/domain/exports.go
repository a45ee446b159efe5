package domain

import (
	interfaces "paylink/internal/domain/interfaces"
	types "paylink/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	DeviceID       = types.DeviceID
	Fingerprint    = types.Fingerprint
	StatusKey      = types.StatusKey
	X25519Public   = types.X25519Public
	X25519Private  = types.X25519Private
	DeviceIdentity = types.DeviceIdentity
	Credentials    = types.Credentials
	Status         = types.Status
	Pagination     = types.Pagination
	Envelope       = types.Envelope
	User           = types.User
	Sender         = types.Sender
	Wallet         = types.Wallet
	SendersPage    = types.SendersPage
	SendersQuery   = types.SendersQuery
	LoginRequest   = types.LoginRequest
	LoginResult    = types.LoginResult
	ClientKeys     = types.ClientKeys
	SessionData    = types.SessionData
	SessionPatch   = types.SessionPatch
	Ticket         = types.Ticket
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	DeviceStore      = interfaces.DeviceStore
	SessionStore     = interfaces.SessionStore
	KeyStore         = interfaces.KeyStore
	SessionService   = interfaces.SessionService
	DashboardService = interfaces.DashboardService
	APIClient        = interfaces.APIClient
)

// Re-exported constants.
const (
	StatusSuccess = types.StatusSuccess
	StatusError   = types.StatusError

	StatusActive   = types.StatusActive
	StatusDraft    = types.StatusDraft
	StatusPending  = types.StatusPending
	StatusRejected = types.StatusRejected
)

// ParseX25519Public decodes the header form of a public key.
var ParseX25519Public = types.ParseX25519Public
