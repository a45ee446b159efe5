package store

import (
	"fmt"
	"path/filepath"
)

// Backend holds the single serialised profile record.
type Backend interface {
	// Load returns the stored bytes, or nil when nothing was saved yet.
	Load() ([]byte, error)
	// Checkpoint replaces the stored bytes.
	Checkpoint(data []byte) error
	Close() error
}

// Backend kinds accepted by OpenBackend.
const (
	KindFile = "file"
	KindBolt = "bolt"
)

const (
	profileFile   = "profile.json"
	profileDBFile = "profile.db"
)

// FileBackend keeps the record in a JSON file.
type FileBackend struct {
	path string
}

// NewFileBackend returns a FileBackend writing to path.
func NewFileBackend(path string) *FileBackend { return &FileBackend{path: path} }

// Load reads the record file.
func (b *FileBackend) Load() ([]byte, error) { return readFile(b.path) }

// Checkpoint atomically rewrites the record file.
func (b *FileBackend) Checkpoint(data []byte) error { return writeFile(b.path, data, 0o600) }

// Close is a no-op.
func (b *FileBackend) Close() error { return nil }

// OpenBackend opens the backend of the given kind under home. A non-empty
// passphrase wraps it in a SealedBackend.
func OpenBackend(kind, home, passphrase string) (Backend, error) {
	var b Backend
	switch kind {
	case "", KindFile:
		b = NewFileBackend(filepath.Join(home, profileFile))
	case KindBolt:
		bb, err := OpenBoltBackend(filepath.Join(home, profileDBFile))
		if err != nil {
			return nil, err
		}
		b = bb
	default:
		return nil, fmt.Errorf("unknown store backend %q (want %s or %s)", kind, KindFile, KindBolt)
	}
	if passphrase != "" {
		b = NewSealedBackend(b, passphrase)
	}
	return b, nil
}

// Compile-time assertions that the backends implement Backend.
var (
	_ Backend = (*FileBackend)(nil)
	_ Backend = (*BoltBackend)(nil)
	_ Backend = (*SealedBackend)(nil)
)
