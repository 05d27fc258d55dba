package store

import (
	"sync"

	"github.com/aaronzipp/escape-the-upside-down/internal/models"
)

// TeamStore manages team storage
type TeamStore struct {
	teams  map[string]*models.Team
	byName map[string]string // normalized name -> team ID
	order  []string          // team IDs in creation order
	mu     sync.RWMutex
}

// NewTeamStore creates a new team store
func NewTeamStore() *TeamStore {
	return &TeamStore{
		teams:  make(map[string]*models.Team),
		byName: make(map[string]string),
	}
}

// Get retrieves a team by ID
func (s *TeamStore) Get(id string) (*models.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, exists := s.teams[id]
	return team, exists
}

// Exists checks if a team ID exists
func (s *TeamStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.teams[id]
	return exists
}

// GetOrCreate returns the team registered under nameKey, or builds and stores a
// new one. newID is called until it yields an unused ID. The lookup and the
// insert happen under one write lock, so two concurrent creates with the same
// key always end up with the same team.
func (s *TeamStore) GetOrCreate(nameKey string, newID func() string, build func(id string) *models.Team) (*models.Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byName[nameKey]; ok {
		return s.teams[id], false
	}

	id := newID()
	for {
		if _, taken := s.teams[id]; !taken {
			break
		}
		id = newID()
	}

	team := build(id)
	s.teams[id] = team
	s.byName[nameKey] = id
	s.order = append(s.order, id)
	return team, true
}

// All returns every team in creation order
func (s *TeamStore) All() []*models.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teams := make([]*models.Team, 0, len(s.order))
	for _, id := range s.order {
		teams = append(teams, s.teams[id])
	}
	return teams
}

// Count returns the number of stored teams
func (s *TeamStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teams)
}
