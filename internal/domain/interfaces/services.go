package interfaces

import (
	"context"
	"encoding/json"

	domaintypes "paylink/internal/domain/types"
)

// KeyStore produces and persists a stable device identity.
type KeyStore interface {
	Ensure() (domaintypes.DeviceIdentity, error)
	Get() (domaintypes.DeviceIdentity, error)
	Reset() error
}

// SessionService is the single authoritative view of the signed-in
// user's state, shared by every caller.
type SessionService interface {
	GetUserData() (domaintypes.SessionData, error)
	UpdateSession(patch domaintypes.SessionPatch) error
	Logout() error

	// Begin tags a request for resource; Commit applies patch unless a
	// newer ticket for the same resource has already been committed.
	Begin(resource string) domaintypes.Ticket
	Commit(ticket domaintypes.Ticket, patch domaintypes.SessionPatch) (bool, error)
}

// DashboardService fetches server state and caches it in the session.
type DashboardService interface {
	Login(ctx context.Context, email, password string) (domaintypes.User, error)
	Logout(ctx context.Context) error
	RefreshProfile(ctx context.Context) (domaintypes.User, error)
	RefreshWallets(ctx context.Context) ([]domaintypes.Wallet, error)
	FetchSenders(ctx context.Context, query domaintypes.SendersQuery) (domaintypes.SendersPage, bool, error)
	SelectSender(ctx context.Context, id string) (domaintypes.Sender, error)
	SaveSenderDraft(draft json.RawMessage) error
	DiscardSenderDraft() error
}
