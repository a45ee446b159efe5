package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"paylink/internal/domain"
)

const (
	// HandshakeSaltSize is the per-response salt carried in the handshake.
	HandshakeSaltSize = 16

	handshakeSize = len(domain.X25519Public{}) + HandshakeSaltSize
	hkdfInfo      = "paylink/handshake/v1"
)

// Handshake is the per-response token: the server's ephemeral X25519
// public key and a fresh salt.
type Handshake struct {
	Ephemeral domain.X25519Public
	Salt      [HandshakeSaltSize]byte
}

// ParseHandshake decodes the unpadded base64url token form.
func ParseHandshake(token string) (Handshake, error) {
	var h Handshake
	if token == "" {
		return h, fmt.Errorf("%w: missing token", domain.ErrInvalidHandshake)
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return h, fmt.Errorf("%w: not base64url", domain.ErrInvalidHandshake)
	}
	if len(raw) != handshakeSize {
		return h, fmt.Errorf(
			"%w: want %d bytes, got %d",
			domain.ErrInvalidHandshake, handshakeSize, len(raw),
		)
	}
	copy(h.Ephemeral[:], raw[:32])
	copy(h.Salt[:], raw[32:])
	if h.Ephemeral.IsZero() {
		return h, fmt.Errorf("%w: zero ephemeral key", domain.ErrInvalidHandshake)
	}
	return h, nil
}

// Bytes returns ephemeral || salt. It is also the AEAD associated data.
func (h Handshake) Bytes() []byte {
	out := make([]byte, 0, handshakeSize)
	out = append(out, h.Ephemeral[:]...)
	return append(out, h.Salt[:]...)
}

// String returns the token form sent in the envelope.
func (h Handshake) String() string {
	return base64.RawURLEncoding.EncodeToString(h.Bytes())
}

// deriveKey expands the shared secret into the payload key. Both public
// keys are bound into the HKDF info so a key cannot be reused across
// devices.
func deriveKey(
	shared []byte,
	h Handshake,
	devicePub domain.X25519Public,
) ([]byte, error) {
	info := make([]byte, 0, len(hkdfInfo)+64)
	info = append(info, hkdfInfo...)
	info = append(info, devicePub[:]...)
	info = append(info, h.Ephemeral[:]...)

	r := hkdf.New(sha256.New, shared, h.Salt[:], info)
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}
