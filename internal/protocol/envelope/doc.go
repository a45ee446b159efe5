// Package envelope turns a server response envelope into plaintext.
//
// # Branches
//
// Every authenticated response goes through Open, which is the only place
// the handshake branch is decided:
//   - status ERROR: the server message becomes a *domain.APIError.
//   - status SUCCESS without a handshake: domain.ErrProtocolViolation.
//     The response is treated exactly like an ERROR; domain.IsFailure
//     reports true for both.
//   - status SUCCESS with a handshake: data is decrypted with the device
//     private key and returned as JSON.
//   - any other status: domain.ErrProtocolViolation.
//
// Decode wraps Open and unmarshals the plaintext into a typed payload.
package envelope
