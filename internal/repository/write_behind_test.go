package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedKV blocks every save until release is closed.
type gatedKV struct {
	*MemoryKV
	release chan struct{}

	mu     sync.Mutex
	writes []string
}

func (g *gatedKV) Save(ctx context.Context, key string, value []byte) error {
	<-g.release
	g.mu.Lock()
	g.writes = append(g.writes, key+"="+string(value))
	g.mu.Unlock()
	return g.MemoryKV.Save(ctx, key, value)
}

func TestWriteBehindReadsOwnWrites(t *testing.T) {
	inner := &gatedKV{MemoryKV: NewMemoryKV(), release: make(chan struct{})}
	w := NewWriteBehindKV(context.Background(), inner, 0, time.Millisecond, nil)

	require.NoError(t, w.Save(context.Background(), "ghs_students", []byte("v1")))

	value, found, err := w.Load(context.Background(), "ghs_students")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v1", string(value))

	close(inner.release)
	require.NoError(t, w.Close())

	stored, found, err := inner.MemoryKV.Load(context.Background(), "ghs_students")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v1", string(stored))
	assert.Zero(t, w.Pending())
}

func TestWriteBehindKeepsLastWrite(t *testing.T) {
	inner := &gatedKV{MemoryKV: NewMemoryKV(), release: make(chan struct{})}
	w := NewWriteBehindKV(context.Background(), inner, 0, time.Millisecond, nil)
	ctx := context.Background()

	for _, v := range []string{"v1", "v2", "v3"} {
		require.NoError(t, w.Save(ctx, "ghs_materials", []byte(v)))
	}
	close(inner.release)
	require.NoError(t, w.Close())

	stored, _, err := inner.MemoryKV.Load(ctx, "ghs_materials")
	require.NoError(t, err)
	assert.Equal(t, "v3", string(stored))
	assert.LessOrEqual(t, len(inner.writes), 2)
	assert.Equal(t, "ghs_materials=v3", inner.writes[len(inner.writes)-1])
}

func TestWriteBehindRetriesFailedWrites(t *testing.T) {
	inner := &failingKV{MemoryKV: NewMemoryKV(), failures: 2}
	w := NewWriteBehindKV(context.Background(), inner, 3, time.Millisecond, nil)

	require.NoError(t, w.Save(context.Background(), "ghs_auth", []byte(`{"user":null}`)))
	require.NoError(t, w.Close())

	stored, found, err := inner.MemoryKV.Load(context.Background(), "ghs_auth")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"user":null}`, string(stored))
	assert.Equal(t, 3, inner.saves)
}

func TestWriteBehindRejectsSavesAfterClose(t *testing.T) {
	w := NewWriteBehindKV(context.Background(), NewMemoryKV(), 0, time.Millisecond, nil)
	require.NoError(t, w.Close())

	assert.Error(t, w.Save(context.Background(), "ghs_auth", []byte("{}")))
}
