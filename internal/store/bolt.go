package store

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	bolt "github.com/boltdb/bolt"
)

var (
	bucketName  = []byte("store")
	documentKey = []byte("document")
)

// boltBackend keeps the same JSON document under a single key. Bolt holds
// an exclusive file lock, so a second process opening the file waits for
// the timeout and fails instead of racing on writes.
type boltBackend struct {
	db *bolt.DB
}

func NewBolt(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return newStore(&boltBackend{db: db}, logger), nil
}

func (b *boltBackend) read() ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get(documentKey)
		if v == nil {
			return os.ErrNotExist
		}
		// bolt values are only valid inside the transaction
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (b *boltBackend) write(data []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(documentKey, data)
	})
}

func (b *boltBackend) ping(_ context.Context) error {
	return b.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketName) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

func (b *boltBackend) Close() error {
	return b.db.Close()
}
