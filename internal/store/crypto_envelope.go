package store

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"paylink/internal/util/memzero"
)

const (
	// The current supported version of the sealed record format.
	// v1: ChaCha20-Poly1305, zero nonce, fresh salt per write.
	// v2: XChaCha20-Poly1305, random nonce, salt kept for the backend's lifetime.
	sealedFormatVersion = 2
)

var (
	// ErrWrongPassphrase is returned when the passphrase is incorrect or the
	// sealed record has been modified / corrupted.
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted profile")

	// ErrSealParams is a sealed record asking for KDF work above the
	// supported maximum.
	ErrSealParams = errors.New("sealed profile has unsupported scrypt parameters")
)

// scryptKey is swapped in tests to count derivations.
var scryptKey = scrypt.Key

// sealedBlob is the on-disk JSON structure holding the ciphertext and KDF parameters.
type sealedBlob struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Nonce  []byte `json:"nonce,omitempty"`
	Cipher []byte `json:"cipher"`
}

// kdfParams identifies one derived key.
type kdfParams struct {
	salt    []byte
	n, r, p int
}

func (k kdfParams) equal(o kdfParams) bool {
	return k.n == o.n && k.r == o.r && k.p == o.p && bytes.Equal(k.salt, o.salt)
}

// SealedBackend encrypts the record before handing it to the inner backend.
// The scrypt key is derived once per salt and reused; every write uses a
// fresh random nonce.
type SealedBackend struct {
	inner      Backend
	passphrase string
	n, r, p    int

	mu     sync.Mutex
	params kdfParams
	key    []byte // nil until first derivation
}

// NewSealedBackend wraps inner with passphrase-based sealing.
func NewSealedBackend(inner Backend, passphrase string) *SealedBackend {
	n, r, p := scryptParamsDefault()
	return &SealedBackend{inner: inner, passphrase: passphrase, n: n, r: r, p: p}
}

// Load opens the sealed record. A missing record is not an error.
func (s *SealedBackend) Load() ([]byte, error) {
	b, err := s.inner.Load()
	if err != nil || b == nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open(b)
}

// Checkpoint seals data under the current key, deriving one from a fresh
// salt the first time.
func (s *SealedBackend) Checkpoint(data []byte) error {
	s.mu.Lock()
	b, err := s.seal(data)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.inner.Checkpoint(b)
}

// Close forgets the derived key and closes the inner backend.
func (s *SealedBackend) Close() error {
	s.mu.Lock()
	memzero.Zero(s.key)
	s.key = nil
	s.mu.Unlock()
	return s.inner.Close()
}

// derive returns the key for params, reusing the cached one when they
// match. Callers hold s.mu.
func (s *SealedBackend) derive(params kdfParams) ([]byte, error) {
	if s.key != nil && s.params.equal(params) {
		return s.key, nil
	}
	key, err := scryptKey([]byte(s.passphrase), params.salt, params.n, params.r, params.p, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	memzero.Zero(s.key)
	s.key = key
	s.params = kdfParams{salt: append([]byte(nil), params.salt...), n: params.n, r: params.r, p: params.p}
	return key, nil
}

// seal encrypts raw into a v2 JSON blob. Callers hold s.mu.
func (s *SealedBackend) seal(raw []byte) ([]byte, error) {
	params := s.params
	if s.key == nil || params.n != s.n || params.r != s.r || params.p != s.p {
		salt := make([]byte, 16)
		if _, err := rand.Read(salt); err != nil {
			return nil, err
		}
		params = kdfParams{salt: salt, n: s.n, r: s.r, p: s.p}
	}
	key, err := s.derive(params)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ct := aead.Seal(nil, nonce, raw, params.salt)

	return json.Marshal(sealedBlob{
		V:      sealedFormatVersion,
		Salt:   params.salt,
		N:      params.n,
		R:      params.r,
		P:      params.p,
		Nonce:  nonce,
		Cipher: ct,
	})
}

// open decrypts a v1 or v2 blob. Callers hold s.mu.
func (s *SealedBackend) open(b []byte) ([]byte, error) {
	var bl sealedBlob
	if err := json.Unmarshal(b, &bl); err != nil {
		return nil, fmt.Errorf("sealed profile: %w", err)
	}
	if bl.V < 1 || bl.V > sealedFormatVersion {
		return nil, fmt.Errorf("unsupported sealed profile version %d", bl.V)
	}
	if bl.N > s.n || bl.R > s.r || bl.P > s.p || bl.N < 2 || bl.R < 1 || bl.P < 1 {
		return nil, fmt.Errorf("%w: N=%d r=%d p=%d", ErrSealParams, bl.N, bl.R, bl.P)
	}

	key, err := s.derive(kdfParams{salt: bl.Salt, n: bl.N, r: bl.R, p: bl.P})
	if err != nil {
		return nil, err
	}

	var pt []byte
	switch bl.V {
	case 1:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, err
		}
		var nonce [chacha20poly1305.NonceSize]byte
		pt, err = aead.Open(nil, nonce[:], bl.Cipher, bl.Salt)
		if err != nil {
			return nil, ErrWrongPassphrase
		}
	default:
		aead, err := chacha20poly1305.NewX(key)
		if err != nil {
			return nil, err
		}
		if len(bl.Nonce) != aead.NonceSize() {
			return nil, ErrWrongPassphrase
		}
		pt, err = aead.Open(nil, bl.Nonce, bl.Cipher, bl.Salt)
		if err != nil {
			return nil, ErrWrongPassphrase
		}
	}
	return pt, nil
}

// Tunables for scrypt key derivation. They are also the upper bound
// accepted from a stored record.
func scryptParamsDefault() (N, r, p int) { return 1 << 15, 8, 1 }
