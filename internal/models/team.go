package models

import (
	"slices"
	"sync"
	"time"
)

// EscapeAttempt records one role pressing the escape button
type EscapeAttempt struct {
	Role Role
	Time time.Time
}

// HintRecord is one dispensed hint
type HintRecord struct {
	Time time.Time
	Role Role // empty when asked for both friends
	Hint string
}

// Team is one independent puzzle instance shared by Eleven and Mike
type Team struct {
	ID        string
	Name      string
	Escaped   bool
	EscapeKey string // set exactly once, together with Escaped

	StartTime time.Time
	EndTime   time.Time // zero until escape

	Steps          []Step // deduplicated, first-arrival order
	EscapeAttempts []EscapeAttempt
	LastHintTime   time.Time // zero when no hint was given yet
	Hints          []HintRecord

	Eleven *RoleState
	Mike   *RoleState

	mu sync.RWMutex
}

// Lock acquires the team's write lock
func (t *Team) Lock() {
	t.mu.Lock()
}

// Unlock releases the team's write lock
func (t *Team) Unlock() {
	t.mu.Unlock()
}

// RLock acquires the team's read lock
func (t *Team) RLock() {
	t.mu.RLock()
}

// RUnlock releases the team's read lock
func (t *Team) RUnlock() {
	t.mu.RUnlock()
}

// Role returns the state of the given role, or nil for an unknown role
func (t *Team) Role(r Role) *RoleState {
	if !r.Valid() {
		return nil
	}
	if r == RoleEleven {
		return t.Eleven
	}
	return t.Mike
}

// RecordStep adds step to the completed set (must be called with lock held).
// It returns false when the step was already recorded.
func (t *Team) RecordStep(step Step) bool {
	if t.HasStep(step) {
		return false
	}
	t.Steps = append(t.Steps, step)
	return true
}

// HasStep reports whether step was invoked at least once
func (t *Team) HasStep(step Step) bool {
	return slices.Contains(t.Steps, step)
}

// BothReady reports whether both readiness flags are set
func (t *Team) BothReady() bool {
	return t.Eleven.Ready(RoleEleven) && t.Mike.Ready(RoleMike)
}

// Phase derives the escape state machine position
func (t *Team) Phase() Phase {
	switch {
	case t.Escaped:
		return PhaseEscaped
	case t.BothReady():
		return PhaseReady
	default:
		return PhaseNotReady
	}
}

// HintsUsed is the total hints dispensed to both roles
func (t *Team) HintsUsed() int {
	return t.Eleven.HintsUsed + t.Mike.HintsUsed
}

// Clone returns a deep copy that shares no slices with t (must be called with lock held)
func (t *Team) Clone() *Team {
	return &Team{
		ID:             t.ID,
		Name:           t.Name,
		Escaped:        t.Escaped,
		EscapeKey:      t.EscapeKey,
		StartTime:      t.StartTime,
		EndTime:        t.EndTime,
		Steps:          slices.Clone(t.Steps),
		EscapeAttempts: slices.Clone(t.EscapeAttempts),
		LastHintTime:   t.LastHintTime,
		Hints:          slices.Clone(t.Hints),
		Eleven:         t.Eleven.clone(),
		Mike:           t.Mike.clone(),
	}
}

func (s *RoleState) clone() *RoleState {
	c := *s
	c.Items = slices.Clone(s.Items)
	return &c
}
