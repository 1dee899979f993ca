package media

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// Camera policies accepted by NewSimulatedCapturer.
const (
	PolicyAllow = "allow"
	PolicyDeny  = "deny"
)

// Stream is an acquired capture device. Close releases it and is safe to call
// more than once.
type Stream interface {
	ID() string
	Close() error
}

// Capturer hands out camera streams.
type Capturer interface {
	Acquire(ctx context.Context) (Stream, error)
}

// SimulatedCapturer stands in for a real camera. It either grants every
// request or refuses all of them.
type SimulatedCapturer struct {
	allow  bool
	open   atomic.Int64
	logger *zap.Logger
}

// NewSimulatedCapturer builds a capturer for policy "allow" or "deny".
func NewSimulatedCapturer(policy string, logger *zap.Logger) (*SimulatedCapturer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch policy {
	case "", PolicyAllow:
		return &SimulatedCapturer{allow: true, logger: logger}, nil
	case PolicyDeny:
		return &SimulatedCapturer{allow: false, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown camera policy %q", policy)
	}
}

// Acquire opens a simulated stream unless the policy denies access.
func (c *SimulatedCapturer) Acquire(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.allow {
		return nil, appErrors.Clone(appErrors.ErrResourceDenied, "camera access denied")
	}
	s := &simulatedStream{id: uuid.NewString(), owner: c}
	c.open.Add(1)
	c.logger.Debug("camera stream acquired", zap.String("stream_id", s.id))
	return s, nil
}

// Open reports how many streams are currently held.
func (c *SimulatedCapturer) Open() int {
	return int(c.open.Load())
}

type simulatedStream struct {
	id    string
	owner *SimulatedCapturer
	once  sync.Once
}

func (s *simulatedStream) ID() string { return s.id }

func (s *simulatedStream) Close() error {
	s.once.Do(func() {
		s.owner.open.Add(-1)
		s.owner.logger.Debug("camera stream released", zap.String("stream_id", s.id))
	})
	return nil
}
