package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

func TestSimulatedCapturerAllow(t *testing.T) {
	c, err := NewSimulatedCapturer(PolicyAllow, nil)
	require.NoError(t, err)

	stream, err := c.Acquire(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, stream.ID())
	assert.Equal(t, 1, c.Open())

	require.NoError(t, stream.Close())
	require.NoError(t, stream.Close())
	assert.Equal(t, 0, c.Open())
}

func TestSimulatedCapturerDeny(t *testing.T) {
	c, err := NewSimulatedCapturer(PolicyDeny, nil)
	require.NoError(t, err)

	stream, err := c.Acquire(context.Background())
	assert.Nil(t, stream)
	assert.ErrorIs(t, err, appErrors.ErrResourceDenied)
	assert.Equal(t, 0, c.Open())
}

func TestNewSimulatedCapturerRejectsUnknownPolicy(t *testing.T) {
	_, err := NewSimulatedCapturer("sometimes", nil)
	assert.Error(t, err)
}

func TestAcquireHonoursCancelledContext(t *testing.T) {
	c, err := NewSimulatedCapturer(PolicyAllow, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
