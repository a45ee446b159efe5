package envelope

import (
	"encoding/json"
	"fmt"

	"paylink/internal/crypto"
	"paylink/internal/domain"
)

// Result is an opened SUCCESS envelope.
type Result struct {
	Data       json.RawMessage
	Pagination *domain.Pagination
}

// Open applies the ERROR / SUCCESS-without-handshake / SUCCESS branch to env.
func Open(env domain.Envelope, priv domain.X25519Private) (Result, error) {
	switch env.Status {
	case domain.StatusError:
		return Result{}, &domain.APIError{Message: env.Message, Code: env.Error}
	case domain.StatusSuccess:
		if env.Handshake == "" {
			return Result{}, fmt.Errorf("%w: success without handshake", domain.ErrProtocolViolation)
		}
		plain, err := crypto.Decrypt(env.Data, env.Handshake, priv)
		if err != nil {
			return Result{}, err
		}
		return Result{Data: plain, Pagination: env.Pagination}, nil
	default:
		return Result{}, fmt.Errorf("%w: status %q", domain.ErrProtocolViolation, env.Status)
	}
}

// Decode opens env and unmarshals the plaintext into T.
func Decode[T any](env domain.Envelope, priv domain.X25519Private) (T, *domain.Pagination, error) {
	var out T
	res, err := Open(env, priv)
	if err != nil {
		return out, nil, err
	}
	if err := json.Unmarshal(res.Data, &out); err != nil {
		return out, nil, fmt.Errorf("%w: unexpected payload shape", domain.ErrDecryption)
	}
	return out, res.Pagination, nil
}
