package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"paylink/internal/domain"
)

// Service owns the live SessionData.
type Service struct {
	keys  domain.KeyStore
	store domain.SessionStore
	log   zerolog.Logger

	mu  sync.Mutex
	cur *domain.SessionData // nil until first use

	epoch     uint64
	issued    map[string]uint64
	committed map[string]uint64
}

// New constructs a session Service. Nothing is loaded until first use.
func New(keys domain.KeyStore, store domain.SessionStore, log zerolog.Logger) *Service {
	return &Service{
		keys:      keys,
		store:     store,
		log:       log.With().Str("component", "session").Logger(),
		issued:    make(map[string]uint64),
		committed: make(map[string]uint64),
	}
}

// GetUserData returns a snapshot of the session. Before any login it is a
// default record carrying a freshly ensured device identity.
func (s *Service) GetUserData() (domain.SessionData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.load()
	if err != nil {
		return domain.SessionData{}, err
	}
	return cur.Clone(), nil
}

// UpdateSession merges patch into the session and persists the result.
// Top-level fields are replaced; sendersTableData is merged per key.
func (s *Service) UpdateSession(patch domain.SessionPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.apply(patch)
}

// Logout resets identity and business fields and clears the bearer token.
// The device identity is kept. Results of requests issued before the
// logout are discarded by Commit.
func (s *Service) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.load()
	if err != nil {
		return err
	}
	next := defaultSession()
	next.DeviceID = cur.DeviceID
	next.Client = cur.Client
	if err := s.store.SaveSession(next); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.cur = &next
	s.epoch++
	s.log.Info().Str("device_id", next.DeviceID.String()).Msg("session cleared")
	return nil
}

// Begin tags a request for resource with the next sequence number.
func (s *Service) Begin(resource string) domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Settle the device binding first so the ticket carries the epoch it
	// will be checked against. A load error surfaces again from Commit.
	_, _ = s.load()
	s.issued[resource]++
	return domain.Ticket{Resource: resource, Seq: s.issued[resource], Epoch: s.epoch}
}

// Commit applies patch for ticket unless a later-issued ticket for the
// same resource has already been committed, or a logout or device reset
// happened since the ticket was issued. It reports whether the patch was
// applied.
func (s *Service) Commit(ticket domain.Ticket, patch domain.SessionPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket.Seq == 0 || ticket.Seq > s.issued[ticket.Resource] {
		return false, fmt.Errorf("unknown ticket %d for %q", ticket.Seq, ticket.Resource)
	}
	if _, err := s.load(); err != nil {
		return false, err
	}
	if ticket.Epoch != s.epoch {
		s.log.Debug().
			Str("resource", ticket.Resource).
			Uint64("seq", ticket.Seq).
			Msg("discarding result issued before logout or device reset")
		return false, nil
	}
	if ticket.Seq < s.committed[ticket.Resource] {
		s.log.Debug().
			Str("resource", ticket.Resource).
			Uint64("seq", ticket.Seq).
			Uint64("committed", s.committed[ticket.Resource]).
			Msg("discarding superseded result")
		return false, nil
	}
	if err := s.apply(patch); err != nil {
		return false, err
	}
	s.committed[ticket.Resource] = ticket.Seq
	return true, nil
}

// load returns the live record, hydrating it on first use. The record is
// always bound to the keystore's current identity: if the device was reset
// since it was loaded, the stale session is replaced by a fresh default one
// and outstanding tickets are invalidated. Callers hold s.mu.
func (s *Service) load() (*domain.SessionData, error) {
	id, err := s.keys.Ensure()
	if err != nil {
		return nil, err
	}
	if s.cur != nil {
		if s.cur.DeviceID == id.DeviceID {
			return s.cur, nil
		}
		return s.rebind(id)
	}

	sess, ok, err := s.store.LoadSession()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		sess = defaultSession()
	}
	if ok && sess.DeviceID != "" && sess.DeviceID != id.DeviceID {
		// The stored token was issued to another key; it cannot be used.
		s.log.Warn().
			Str("device_id", id.DeviceID.String()).
			Msg("stored session belongs to another device; starting fresh")
		sess = defaultSession()
	}
	bindDevice(&sess, id)
	if sess.SendersTableData == nil {
		sess.SendersTableData = make(map[domain.StatusKey]domain.SendersPage)
	}
	s.cur = &sess
	return s.cur, nil
}

// rebind drops a live session whose device identity was replaced and
// persists a fresh one for id. Callers hold s.mu.
func (s *Service) rebind(id domain.DeviceIdentity) (*domain.SessionData, error) {
	s.log.Warn().
		Str("device_id", id.DeviceID.String()).
		Str("previous_device_id", s.cur.DeviceID.String()).
		Msg("device identity changed; session cleared")
	next := defaultSession()
	bindDevice(&next, id)
	s.epoch++
	s.cur = nil
	if err := s.store.SaveSession(next); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	s.cur = &next
	return s.cur, nil
}

func bindDevice(sess *domain.SessionData, id domain.DeviceIdentity) {
	sess.DeviceID = id.DeviceID
	sess.Client = domain.ClientKeys{PublicKey: id.PublicKey, PrivateKey: id.PrivateKey}
}

// apply merges patch into a copy of the live record, validates and
// persists it, then swaps it in. Callers hold s.mu.
func (s *Service) apply(patch domain.SessionPatch) error {
	cur, err := s.load()
	if err != nil {
		return err
	}
	if patch.Empty() {
		return nil
	}
	next := cur.Clone()
	merge(&next, patch)
	if err := validateMerge(*cur, next, patch); err != nil {
		return err
	}
	if err := s.store.SaveSession(next); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.cur = &next
	return nil
}

func merge(dst *domain.SessionData, p domain.SessionPatch) {
	if p.Authorization != nil {
		dst.Authorization = *p.Authorization
	}
	if p.User != nil {
		u := *p.User
		dst.User = &u
	}
	if p.Sender != nil {
		snd := *p.Sender
		dst.Sender = &snd
	}
	if p.Wallets != nil {
		dst.Wallets = append([]domain.Wallet{}, (*p.Wallets)...)
	}
	for k, page := range p.SendersTableData {
		page.Items = append([]domain.Sender{}, page.Items...)
		dst.SendersTableData[k] = page
	}
	if p.AddSender != nil {
		if bytes.Equal(bytes.TrimSpace(p.AddSender), []byte("null")) {
			dst.AddSender = nil
		} else {
			dst.AddSender = append(json.RawMessage(nil), p.AddSender...)
		}
	}
	if p.IsLoggedIn != nil {
		dst.IsLoggedIn = *p.IsLoggedIn
	}
}

// validateMerge checks that no cached list tab was lost and every patched
// tab landed. merge only assigns keys, so this guards future changes to it.
func validateMerge(prev, next domain.SessionData, p domain.SessionPatch) error {
	for k := range prev.SendersTableData {
		if _, ok := next.SendersTableData[k]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrSessionMergeConflict, k)
		}
	}
	for k := range p.SendersTableData {
		if _, ok := next.SendersTableData[k]; !ok {
			return fmt.Errorf("%w: %s not written", domain.ErrSessionMergeConflict, k)
		}
	}
	return nil
}

func defaultSession() domain.SessionData {
	return domain.SessionData{
		Wallets:          []domain.Wallet{},
		SendersTableData: make(map[domain.StatusKey]domain.SendersPage),
	}
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
