package store

import (
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	profileBucket = []byte("profile")
	recordKey     = []byte("record")
)

// BoltBackend keeps the record under a single key of a bbolt database.
type BoltBackend struct {
	db *bolt.DB
}

// OpenBoltBackend opens (creating if needed) the database at path.
func OpenBoltBackend(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(profileBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltBackend{db: db}, nil
}

// Load returns a copy of the stored record.
func (b *BoltBackend) Load() ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(profileBucket).Get(recordKey)
		if v != nil {
			// v is only valid inside the transaction.
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, err
}

// Checkpoint stores data in one transaction.
func (b *BoltBackend) Checkpoint(data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(profileBucket).Put(recordKey, data)
	})
}

// Close releases the database file lock.
func (b *BoltBackend) Close() error { return b.db.Close() }
