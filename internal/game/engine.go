package game

import (
	"io"
	"log/slog"
	"time"

	"github.com/aaronzipp/escape-the-upside-down/internal/models"
	"github.com/aaronzipp/escape-the-upside-down/internal/store"
)

// Engine drives every team's puzzle state machine. Each operation takes the
// team's own lock for its whole read-modify-write; operations on different
// teams only share the short store lookup.
type Engine struct {
	store  *store.TeamStore
	clock  Clock
	logger *slog.Logger
	newID  func() string
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces the wall clock, mainly for tests
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithIDGenerator replaces GenerateTeamID
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

// NewEngine creates an engine backed by the given store
func NewEngine(s *store.TeamStore, opts ...Option) *Engine {
	e := &Engine{
		store:  s,
		clock:  SystemClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  GenerateTeamID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// lookup returns the live team; callers must lock it before touching state
func (e *Engine) lookup(id string) (*models.Team, error) {
	team, exists := e.store.Get(id)
	if !exists {
		return nil, newNotFound(id)
	}
	return team, nil
}

// withTeam runs fn under the team's write lock
func (e *Engine) withTeam(id string, fn func(team *models.Team) error) error {
	team, err := e.lookup(id)
	if err != nil {
		return err
	}
	team.Lock()
	defer team.Unlock()
	return fn(team)
}

// Now returns the engine's current time
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}
