package repository

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

// PortalBucket is the bbolt bucket holding every portal key.
var PortalBucket = []byte("Portal")

// BoltKV stores values in a single bbolt bucket.
type BoltKV struct {
	db *bbolt.DB
}

// NewBoltKV wraps an open bbolt database. The PortalBucket must exist.
func NewBoltKV(db *bbolt.DB) *BoltKV {
	return &BoltKV{db: db}
}

// Load implements KVStore.
func (b *BoltKV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(PortalBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s missing", PortalBucket)
		}
		if raw := bucket.Get([]byte(key)); raw != nil {
			value = append([]byte(nil), raw...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("bolt load %s: %w", key, err)
	}
	return value, value != nil, nil
}

// Save implements KVStore.
func (b *BoltKV) Save(ctx context.Context, key string, value []byte) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(PortalBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s missing", PortalBucket)
		}
		return bucket.Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("bolt save %s: %w", key, err)
	}
	return nil
}

// Close implements KVStore.
func (b *BoltKV) Close() error {
	return b.db.Close()
}
