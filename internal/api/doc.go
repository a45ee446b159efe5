// Package api provides the HTTP implementation of domain.APIClient used by
// paylink to reach the payments dashboard API.
//
// Every request carries the device headers:
//   - X-Public-Key: base64 of the device X25519 public key, which the
//     server encrypts the response payload to.
//   - X-Device-Id: the persisted device id.
//   - Authorization: "Bearer <token>" once logged in.
//
// The client returns the response envelope untouched. Opening it (the
// ERROR / SUCCESS branch and decryption) is the job of
// internal/protocol/envelope. An ERROR envelope is a valid response even
// when it arrives with a 4xx status. Anything else that is not a 2xx
// envelope, and every network failure, is a *domain.TransportError.
//
// All requests accept a context for cancellation and deadlines. The client
// never retries.
package api
