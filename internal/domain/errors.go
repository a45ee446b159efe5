package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by KeyStore.Get before Ensure ever ran.
	ErrNotInitialized = errors.New("device identity not initialized")

	// ErrKeyGeneration means no keypair could be produced; no authenticated
	// call may proceed.
	ErrKeyGeneration = errors.New("cannot establish secure session")

	// ErrInvalidHandshake is a handshake token of the wrong shape or length.
	ErrInvalidHandshake = errors.New("invalid handshake")

	// ErrDecryption covers every cryptographic rejection of a payload.
	ErrDecryption = errors.New("payload decryption failed")

	// ErrEmptyPayload is a SUCCESS envelope with no ciphertext.
	ErrEmptyPayload = errors.New("empty payload")

	// ErrProtocolViolation is a SUCCESS envelope without a handshake, or an
	// unknown status.
	ErrProtocolViolation = errors.New("unable to process response")

	// ErrSessionMergeConflict means a merge would have dropped sibling keys.
	ErrSessionMergeConflict = errors.New("session merge dropped cached entries")
)

// APIError is an ERROR envelope returned by the server.
type APIError struct {
	Message string
	Code    string
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "" && e.Code != "":
		return fmt.Sprintf("api error %s: %s", e.Code, e.Message)
	case e.Message != "":
		return "api error: " + e.Message
	case e.Code != "":
		return "api error " + e.Code
	}
	return "api error"
}

// TransportError is a network or HTTP failure talking to the API.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("api %s %s: http %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("api %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsFailure reports whether err is a server-side or protocol failure of
// a call, i.e. the caller must treat the response as an ERROR envelope.
func IsFailure(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) || errors.Is(err, ErrProtocolViolation)
}

// UserMessage maps err to text safe to show a user. It never includes key
// material or ciphertext.
func UserMessage(err error) string {
	var apiErr *APIError
	var transportErr *TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrKeyGeneration), errors.Is(err, ErrNotInitialized):
		return "Cannot establish secure session"
	case errors.Is(err, ErrProtocolViolation):
		return "Unable to process response"
	case errors.Is(err, ErrInvalidHandshake),
		errors.Is(err, ErrDecryption),
		errors.Is(err, ErrEmptyPayload):
		return "Something went wrong, please try again"
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "Request failed, please try again"
	case errors.As(err, &transportErr):
		return "Network error, please check your connection and try again"
	}
	return "Something went wrong, please try again"
}
