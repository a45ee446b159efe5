package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"paylink/internal/domain"
	"paylink/internal/util/memzero"
)

// Decrypt recovers the JSON payload of a SUCCESS envelope.
//
// It fails with domain.ErrEmptyPayload for empty data,
// domain.ErrInvalidHandshake for a malformed token and domain.ErrDecryption
// for anything that does not authenticate under priv and handshake. No
// partial plaintext is ever returned.
func Decrypt(
	ciphertext string,
	handshake string,
	priv domain.X25519Private,
) (json.RawMessage, error) {
	if ciphertext == "" {
		return nil, domain.ErrEmptyPayload
	}
	h, err := ParseHandshake(handshake)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: data is not base64", domain.ErrDecryption)
	}
	if len(raw) < chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("%w: data too short", domain.ErrDecryption)
	}

	devicePub, err := PublicFromPrivate(priv)
	if err != nil {
		return nil, fmt.Errorf("%w: bad device key", domain.ErrDecryption)
	}
	shared, err := DH(priv, h.Ephemeral)
	if err != nil {
		return nil, fmt.Errorf("%w: low-order ephemeral key", domain.ErrInvalidHandshake)
	}
	defer memzero.Zero(shared[:])

	key, err := deriveKey(shared[:], h, devicePub)
	if err != nil {
		return nil, fmt.Errorf("%w: key derivation", domain.ErrDecryption)
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: cipher init", domain.ErrDecryption)
	}
	nonce := raw[:chacha20poly1305.NonceSizeX]
	body := raw[chacha20poly1305.NonceSizeX:]
	pt, err := aead.Open(nil, nonce, body, h.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", domain.ErrDecryption)
	}
	if !json.Valid(pt) {
		memzero.Zero(pt)
		return nil, fmt.Errorf("%w: payload is not JSON", domain.ErrDecryption)
	}
	return json.RawMessage(pt), nil
}

// ParseData is Decrypt with the argument order used by view code:
// data, private key, handshake.
func ParseData(
	data string,
	priv domain.X25519Private,
	handshake string,
) (json.RawMessage, error) {
	return Decrypt(data, handshake, priv)
}

// Seal encrypts plaintext for the device owning devicePub and returns the
// envelope data and handshake. Clients never call it; the development
// API and tests do.
func Seal(devicePub domain.X25519Public, plaintext []byte) (data, handshake string, err error) {
	return seal(rand.Reader, devicePub, plaintext)
}

func seal(
	r io.Reader,
	devicePub domain.X25519Public,
	plaintext []byte,
) (data, handshake string, err error) {
	ephPriv, ephPub, err := generateX25519(r)
	if err != nil {
		return "", "", err
	}
	defer memzero.Zero(ephPriv[:])

	h := Handshake{Ephemeral: ephPub}
	if _, err := io.ReadFull(r, h.Salt[:]); err != nil {
		return "", "", err
	}

	shared, err := DH(ephPriv, devicePub)
	if err != nil {
		return "", "", fmt.Errorf("seal: %w", err)
	}
	defer memzero.Zero(shared[:])

	key, err := deriveKey(shared[:], h, devicePub)
	if err != nil {
		return "", "", err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", "", err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX, chacha20poly1305.NonceSizeX+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(r, nonce); err != nil {
		return "", "", err
	}
	out := aead.Seal(nonce, nonce, plaintext, h.Bytes())
	return base64.StdEncoding.EncodeToString(out), h.String(), nil
}
