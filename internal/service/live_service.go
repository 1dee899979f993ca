package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal/internal/media"
	"github.com/noah-isme/school-portal/internal/models"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// LiveService drives the live class flag and the camera stream behind it.
// Subscribers get every change of the session.
type LiveService struct {
	state    *State
	capturer media.Capturer
	clock    Clock
	logger   *zap.Logger

	stream media.Stream

	mu          sync.RWMutex
	subscribers map[int]chan models.LiveSession
	nextSubID   int
}

// NewLiveService constructs the service.
func NewLiveService(state *State, capturer media.Capturer, clock Clock, logger *zap.Logger) *LiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &LiveService{
		state:       state,
		capturer:    capturer,
		clock:       clock,
		logger:      logger,
		subscribers: make(map[int]chan models.LiveSession),
	}
}

// Toggle sets the live flag. Activating records teacherName and the start
// time; deactivating clears both.
func (s *LiveService) Toggle(active bool, teacherName string) models.LiveSession {
	if active {
		now := s.clock.Now()
		s.state.Live = models.LiveSession{IsActive: true, TeacherName: teacherName, StartTime: &now}
	} else {
		s.state.Live = models.LiveSession{}
	}
	current := cloneLive(s.state.Live)
	s.broadcast(current)
	return current
}

// Start opens the camera and activates the session. A refused camera or a
// blank teacher name leaves the session untouched.
func (s *LiveService) Start(ctx context.Context, teacherName string) (models.LiveSession, error) {
	if strings.TrimSpace(teacherName) == "" {
		return cloneLive(s.state.Live), appErrors.Clone(appErrors.ErrValidation, "teacher name is required to go live")
	}
	if s.stream == nil {
		stream, err := s.capturer.Acquire(ctx)
		if err != nil {
			s.logger.Warn("camera unavailable, live class not started", zap.Error(err))
			return cloneLive(s.state.Live), err
		}
		s.stream = stream
	}
	s.logger.Info("live class started", zap.String("teacher", teacherName))
	return s.Toggle(true, teacherName), nil
}

// Stop releases the camera and deactivates the session.
func (s *LiveService) Stop() models.LiveSession {
	s.Release()
	s.logger.Info("live class stopped")
	return s.Toggle(false, "")
}

// Release closes the camera stream if one is held. Safe to call repeatedly.
func (s *LiveService) Release() {
	if s.stream == nil {
		return
	}
	if err := s.stream.Close(); err != nil {
		s.logger.Warn("failed to release camera stream", zap.Error(err))
	}
	s.stream = nil
}

// Streaming reports whether a camera stream is held.
func (s *LiveService) Streaming() bool {
	return s.stream != nil
}

// Current returns the session.
func (s *LiveService) Current() models.LiveSession {
	return cloneLive(s.state.Live)
}

// Subscribe registers for session changes. Slow subscribers miss updates
// rather than block the portal. cancel unregisters and closes the channel.
func (s *LiveService) Subscribe() (updates <-chan models.LiveSession, cancel func()) {
	ch := make(chan models.LiveSession, 8)

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *LiveService) broadcast(session models.LiveSession) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- cloneLive(session):
		default:
		}
	}
}
