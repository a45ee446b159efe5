package keystore

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"paylink/internal/crypto"
	"paylink/internal/domain"
)

// Service produces and persists a stable device identity.
type Service struct {
	store domain.DeviceStore
	log   zerolog.Logger
	mu    sync.Mutex

	// cached is the identity last loaded or created; Reset clears it.
	cached *domain.DeviceIdentity

	// generate is swapped in tests to simulate an unavailable entropy source.
	generate func() (domain.X25519Private, domain.X25519Public, error)
	now      func() time.Time
}

// New returns a keystore backed by the given store.
func New(s domain.DeviceStore, log zerolog.Logger) *Service {
	return &Service{
		store:    s,
		log:      log.With().Str("component", "keystore").Logger(),
		generate: crypto.GenerateX25519,
		now:      time.Now,
	}
}

// Ensure returns the persisted identity, generating and saving one first
// if none exists. Repeated calls return the same identity until Reset.
func (s *Service) Ensure() (domain.DeviceIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return *s.cached, nil
	}
	id, ok, err := s.store.LoadDevice()
	if err != nil {
		return domain.DeviceIdentity{}, fmt.Errorf("load device identity: %w", err)
	}
	if ok && id.Valid() {
		s.cached = &id
		return id, nil
	}
	if ok {
		s.log.Warn().Msg("stored device identity is incomplete; generating a new one")
	}

	priv, pub, err := s.generate()
	if err != nil {
		s.log.Error().Err(err).Msg("device key generation failed")
		return domain.DeviceIdentity{}, fmt.Errorf("%w: %v", domain.ErrKeyGeneration, err)
	}
	deviceID, err := uuid.NewRandom()
	if err != nil {
		return domain.DeviceIdentity{}, fmt.Errorf("%w: device id: %v", domain.ErrKeyGeneration, err)
	}

	id = domain.DeviceIdentity{
		DeviceID:   domain.DeviceID(deviceID.String()),
		PublicKey:  pub,
		PrivateKey: priv,
		CreatedUTC: s.now().Unix(),
	}
	if err := s.store.SaveDevice(id); err != nil {
		return domain.DeviceIdentity{}, fmt.Errorf("save device identity: %w", err)
	}
	s.cached = &id
	s.log.Info().
		Str("device_id", id.DeviceID.String()).
		Str("fingerprint", crypto.Fingerprint(pub).String()).
		Msg("device identity created")
	return id, nil
}

// Get returns the persisted identity or domain.ErrNotInitialized.
func (s *Service) Get() (domain.DeviceIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok, err := s.store.LoadDevice()
	if err != nil {
		return domain.DeviceIdentity{}, fmt.Errorf("load device identity: %w", err)
	}
	if !ok || !id.Valid() {
		return domain.DeviceIdentity{}, domain.ErrNotInitialized
	}
	return id, nil
}

// Reset forgets the device identity and everything bound to it. The next
// Ensure generates a new one.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteDevice(); err != nil {
		return fmt.Errorf("delete device identity: %w", err)
	}
	s.cached = nil
	s.log.Info().Msg("device identity reset")
	return nil
}

// Compile-time assertion that Service implements domain.KeyStore.
var _ domain.KeyStore = (*Service)(nil)
