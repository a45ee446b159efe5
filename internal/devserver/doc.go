// Package devserver is an in-memory stand-in for the payments dashboard
// API. It serves seeded fixtures over the same envelope protocol the real
// API uses, so the client can be run and tested end to end without the
// production backend.
//
// Every SUCCESS response is sealed to the caller's X-Public-Key with
// crypto.Seal and carries a fresh handshake. Errors are plain ERROR
// envelopes. Bearer tokens are HS256 JWTs bound to the device id that
// logged in. Requests are rate limited per device.
//
// Faults can be injected with SetFault to exercise the client's failure
// paths (missing handshake, corrupted ciphertext).
package devserver
