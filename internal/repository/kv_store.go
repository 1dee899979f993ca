package repository

import (
	"context"
	"time"
)

// KVStore is the durable key-value API the portal state is mirrored to.
type KVStore interface {
	// Load returns the value stored under key. found is false when the key
	// has never been written.
	Load(ctx context.Context, key string) (value []byte, found bool, err error)
	// Save replaces the value stored under key.
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// WriteObserver is told about every write that reached a backend.
type WriteObserver func(key string, duration time.Duration, err error)

type observedKV struct {
	KVStore
	observe WriteObserver
}

// Observe wraps store so observe sees every backend write. A nil observer
// returns store unchanged.
func Observe(store KVStore, observe WriteObserver) KVStore {
	if observe == nil {
		return store
	}
	return &observedKV{KVStore: store, observe: observe}
}

func (o *observedKV) Save(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := o.KVStore.Save(ctx, key, value)
	o.observe(key, time.Since(start), err)
	return err
}
