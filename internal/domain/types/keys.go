package types

import (
	"encoding/base64"
	"fmt"
)

// X25519Public is a Curve25519 public key.
type X25519Public [32]byte

// Slice returns the key as a []byte.
func (p X25519Public) Slice() []byte { return p[:] }

// IsZero reports whether the key is unset.
func (p X25519Public) IsZero() bool { return p == X25519Public{} }

// String returns the standard base64 form used in the X-Public-Key header.
func (p X25519Public) String() string { return base64.StdEncoding.EncodeToString(p[:]) }

// MarshalText encodes the key as standard base64.
func (p X25519Public) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText decodes a standard base64 key.
func (p *X25519Public) UnmarshalText(b []byte) error {
	return decodeKey(p[:], b, "X25519 public")
}

// ParseX25519Public decodes the header form of a public key.
func ParseX25519Public(s string) (X25519Public, error) {
	var p X25519Public
	err := p.UnmarshalText([]byte(s))
	return p, err
}

// X25519Private is a Curve25519 private key.
type X25519Private [32]byte

// Slice returns the key as a []byte.
func (k X25519Private) Slice() []byte { return k[:] }

// IsZero reports whether the key is unset.
func (k X25519Private) IsZero() bool { return k == X25519Private{} }

// String never prints key material.
func (k X25519Private) String() string { return "X25519Private(redacted)" }

// GoString keeps %#v from printing key material.
func (k X25519Private) GoString() string { return k.String() }

// MarshalText encodes the key as standard base64 for the persisted record.
func (k X25519Private) MarshalText() ([]byte, error) {
	return []byte(base64.StdEncoding.EncodeToString(k[:])), nil
}

// UnmarshalText decodes a standard base64 key.
func (k *X25519Private) UnmarshalText(b []byte) error {
	return decodeKey(k[:], b, "X25519 private")
}

func decodeKey(dst, text []byte, what string) error {
	raw, err := base64.StdEncoding.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("%s key: %w", what, err)
	}
	if len(raw) != len(dst) {
		return fmt.Errorf("%s key: want %d bytes, got %d", what, len(dst), len(raw))
	}
	copy(dst, raw)
	return nil
}
