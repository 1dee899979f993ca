package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/pkg/jobs"
)

const writeJobType = "kv.save"

type pendingWrite struct {
	value     []byte
	version   uint64
	scheduled bool
}

// WriteBehindKV acknowledges saves immediately and flushes them on a single
// background worker. Only the newest pending value per key is written.
type WriteBehindKV struct {
	inner  KVStore
	queue  *jobs.Queue
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]*pendingWrite
}

// NewWriteBehindKV starts the background writer. Close must be called to
// flush pending writes.
func NewWriteBehindKV(ctx context.Context, inner KVStore, retries int, retryDelay time.Duration, logger *zap.Logger) *WriteBehindKV {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &WriteBehindKV{
		inner:   inner,
		logger:  logger,
		pending: make(map[string]*pendingWrite),
	}
	w.queue = jobs.NewQueue("store-writer", w.flush, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 16,
		MaxRetries: retries,
		RetryDelay: retryDelay,
		Logger:     logger,
	})
	w.queue.Start(ctx)
	return w
}

// Load returns a pending value before consulting the backend so callers
// always read their own writes.
func (w *WriteBehindKV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	w.mu.Lock()
	if p, ok := w.pending[key]; ok {
		value := append([]byte(nil), p.value...)
		w.mu.Unlock()
		return value, true, nil
	}
	w.mu.Unlock()
	return w.inner.Load(ctx, key)
}

// Save records value as the newest pending write for key.
func (w *WriteBehindKV) Save(ctx context.Context, key string, value []byte) error {
	w.mu.Lock()
	p, ok := w.pending[key]
	if !ok {
		p = &pendingWrite{}
		w.pending[key] = p
	}
	p.value = append([]byte(nil), value...)
	p.version++
	needsJob := !p.scheduled
	p.scheduled = true
	w.mu.Unlock()

	if !needsJob {
		return nil
	}
	if err := w.queue.Enqueue(jobs.Job{ID: key, Type: writeJobType, Payload: key}); err != nil {
		w.mu.Lock()
		p.scheduled = false
		w.mu.Unlock()
		return fmt.Errorf("schedule write %s: %w", key, err)
	}
	return nil
}

func (w *WriteBehindKV) flush(ctx context.Context, job jobs.Job) error {
	key, _ := job.Payload.(string)

	w.mu.Lock()
	p, ok := w.pending[key]
	if !ok {
		w.mu.Unlock()
		return nil
	}
	p.scheduled = false
	value := p.value
	version := p.version
	w.mu.Unlock()

	if err := w.inner.Save(ctx, key, value); err != nil {
		return err
	}

	w.mu.Lock()
	if current, ok := w.pending[key]; ok && current.version == version && !current.scheduled {
		delete(w.pending, key)
	}
	w.mu.Unlock()
	w.logger.Debug("store write flushed", zap.String("key", key))
	return nil
}

// Pending reports how many keys still wait for a flush.
func (w *WriteBehindKV) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Close drains the queue and closes the wrapped store.
func (w *WriteBehindKV) Close() error {
	w.queue.Stop()
	if n := w.Pending(); n > 0 {
		w.logger.Warn("store writes lost on shutdown", zap.Int("keys", n))
	}
	return w.inner.Close()
}
