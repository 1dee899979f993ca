package service

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/school-portal/pkg/config"
	appErrors "github.com/noah-isme/school-portal/pkg/errors"
)

// Clock supplies timestamps for new records.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

const defaultIDAttempts = 50

// IDGenerator allocates record identifiers and enforces their uniqueness at
// insertion time.
type IDGenerator struct {
	strategy    string
	prefix      string
	maxAttempts int
	intn        func(n int) int
	newUUID     func() string
}

// NewIDGenerator builds a generator from configuration.
func NewIDGenerator(cfg config.IDConfig) *IDGenerator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultIDAttempts
	}
	if cfg.Strategy == "" {
		cfg.Strategy = config.IDStrategyLegacy
	}
	return &IDGenerator{
		strategy:    cfg.Strategy,
		prefix:      cfg.StudentPrefix,
		maxAttempts: cfg.MaxAttempts,
		intn:        rand.Intn,
		newUUID:     uuid.NewString,
	}
}

// StudentID returns an id not reported by taken. The legacy strategy draws a
// four digit suffix in [1000, 9999].
func (g *IDGenerator) StudentID(taken func(string) bool) (string, error) {
	if g.strategy == config.IDStrategyUUID {
		return g.UniqueUUID(taken)
	}
	return g.unique(taken, func() string {
		return fmt.Sprintf("%s%d", g.prefix, 1000+g.intn(9000))
	})
}

// UniqueUUID returns a random UUID not reported by taken.
func (g *IDGenerator) UniqueUUID(taken func(string) bool) (string, error) {
	return g.unique(taken, g.newUUID)
}

func (g *IDGenerator) unique(taken func(string) bool, next func() string) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		id := next()
		if !taken(id) {
			return id, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("no free identifier after %d attempts", g.maxAttempts))
}
