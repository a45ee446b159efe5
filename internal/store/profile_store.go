package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"paylink/internal/domain"
)

const profileFormatVersion = 1

// profileRecord is the single serialised record per installation.
type profileRecord struct {
	V       int                    `json:"v"`
	Device  *domain.DeviceIdentity `json:"device,omitempty"`
	Session *domain.SessionData    `json:"session,omitempty"`
}

// ProfileStore persists the device identity and session data as one record.
type ProfileStore struct {
	backend Backend
	mu      sync.Mutex
}

// NewProfileStore returns a ProfileStore over backend.
func NewProfileStore(backend Backend) *ProfileStore {
	return &ProfileStore{backend: backend}
}

// LoadDevice returns the stored device identity and whether it was present.
func (s *ProfileStore) LoadDevice() (domain.DeviceIdentity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read()
	if err != nil {
		return domain.DeviceIdentity{}, false, err
	}
	if rec.Device == nil {
		return domain.DeviceIdentity{}, false, nil
	}
	return *rec.Device, true, nil
}

// SaveDevice stores the device identity, keeping the session untouched.
func (s *ProfileStore) SaveDevice(identity domain.DeviceIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read()
	if err != nil {
		return err
	}
	rec.Device = &identity
	return s.write(rec)
}

// DeleteDevice drops the device identity together with the session that
// was bound to it.
func (s *ProfileStore) DeleteDevice() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(profileRecord{})
}

// LoadSession returns the stored session and whether it was present.
func (s *ProfileStore) LoadSession() (domain.SessionData, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read()
	if err != nil {
		return domain.SessionData{}, false, err
	}
	if rec.Session == nil {
		return domain.SessionData{}, false, nil
	}
	return *rec.Session, true, nil
}

// SaveSession replaces the stored session, keeping the device untouched.
func (s *ProfileStore) SaveSession(session domain.SessionData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read()
	if err != nil {
		return err
	}
	rec.Session = &session
	return s.write(rec)
}

// Close closes the backend.
func (s *ProfileStore) Close() error { return s.backend.Close() }

func (s *ProfileStore) read() (profileRecord, error) {
	var rec profileRecord
	b, err := s.backend.Load()
	if err != nil {
		return rec, err
	}
	if b == nil {
		return rec, nil
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		return rec, fmt.Errorf("decode profile: %w", err)
	}
	if rec.V > profileFormatVersion {
		return rec, fmt.Errorf("unsupported profile version %d", rec.V)
	}
	return rec, nil
}

func (s *ProfileStore) write(rec profileRecord) error {
	rec.V = profileFormatVersion
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return s.backend.Checkpoint(b)
}

// Compile-time assertions that ProfileStore implements the domain stores.
var (
	_ domain.DeviceStore  = (*ProfileStore)(nil)
	_ domain.SessionStore = (*ProfileStore)(nil)
)
