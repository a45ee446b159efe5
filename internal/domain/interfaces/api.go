package interfaces

import (
	"context"

	domaintypes "paylink/internal/domain/types"
)

// APIClient issues authenticated calls and returns the raw envelope.
// Transport failures come back as *domain.TransportError; the envelope is
// not inspected here.
type APIClient interface {
	Login(
		ctx context.Context,
		creds domaintypes.Credentials,
		req domaintypes.LoginRequest,
	) (domaintypes.Envelope, error)
	Logout(ctx context.Context, creds domaintypes.Credentials) (domaintypes.Envelope, error)
	Me(ctx context.Context, creds domaintypes.Credentials) (domaintypes.Envelope, error)
	Wallets(ctx context.Context, creds domaintypes.Credentials) (domaintypes.Envelope, error)
	Senders(
		ctx context.Context,
		creds domaintypes.Credentials,
		query domaintypes.SendersQuery,
	) (domaintypes.Envelope, error)
	Sender(
		ctx context.Context,
		creds domaintypes.Credentials,
		id string,
	) (domaintypes.Envelope, error)
}
