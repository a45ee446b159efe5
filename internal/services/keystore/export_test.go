package keystore

import "paylink/internal/domain"

// SetGenerator replaces the key generator for failure tests.
func (s *Service) SetGenerator(f func() (domain.X25519Private, domain.X25519Public, error)) {
	s.generate = f
}
