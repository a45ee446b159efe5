// Package store persists the device profile: one serialised record per
// installation holding the device identity and the session data.
//
// ProfileStore implements the domain DeviceStore and SessionStore
// interfaces on top of a Backend. All methods are concurrency-safe via
// internal locking; every write is a read-modify-write of the whole record
// inside that lock.
//
// Backends:
//   - FileBackend: a JSON file written via temp file + rename
//   - BoltBackend: a single key in a bbolt database
//   - SealedBackend: wraps another backend and encrypts the record with a
//     passphrase-derived key (scrypt + ChaCha20-Poly1305)
package store
