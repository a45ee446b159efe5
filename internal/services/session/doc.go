// Package session is the single authoritative, persisted view of the
// signed-in user's state.
//
// Every reader gets a deep copy of the live record; every writer goes
// through UpdateSession (a merge) or Logout (a reset that keeps the device
// identity). Writes are persisted synchronously inside the service lock,
// so a later GetUserData from anywhere observes them.
//
// Requests that race for the same logical resource are ordered with
// tickets: Begin tags a request when it is issued and Commit drops its
// result if a later-issued request for that resource already landed.
package session
