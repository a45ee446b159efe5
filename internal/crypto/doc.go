// Package crypto exposes the primitives behind the device handshake.
//
// Contents
//
//   - X25519 device key generation and Diffie–Hellman (GenerateX25519, DH)
//   - Handshake tokens: a server ephemeral public key plus salt
//     (ParseHandshake, Handshake.String)
//   - Payload decryption keyed by device private key and handshake
//     (Decrypt, ParseData) and the matching Seal used by servers and tests
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Scheme
//
// The response key is HKDF-SHA256 over X25519(device, ephemeral) with the
// handshake salt, bound to both public keys. Payloads are sealed with
// XChaCha20-Poly1305 using the raw handshake as associated data, so a
// payload only opens under the handshake it was issued with.
//
// # Notes
//
// Error values never carry key material. Callers match them with errors.Is
// against the sentinels in internal/domain.
package crypto
