package game

import (
	"time"

	"github.com/aaronzipp/escape-the-upside-down/internal/models"
)

// Role locations
const (
	LocationEleven = "Hawkins Lab (Real World)"
	LocationMike   = "Upside Down Hawkins Lab"
)

// initTeam puts every mutable field back to its creation default.
// ID and Name are left untouched.
func initTeam(team *models.Team, now time.Time) {
	elevenItems, mikeItems := DefaultItems()

	team.Escaped = false
	team.EscapeKey = ""
	team.StartTime = now
	team.EndTime = time.Time{}
	team.Steps = nil
	team.EscapeAttempts = nil
	team.LastHintTime = time.Time{}
	team.Hints = nil
	team.Eleven = &models.RoleState{Location: LocationEleven, Items: elevenItems}
	team.Mike = &models.RoleState{Location: LocationMike, Items: mikeItems}
}

// CreateOrGetTeam returns the team whose name matches case-insensitively, or
// creates a new one. An existing team is returned without any mutation.
func (e *Engine) CreateOrGetTeam(name string) (*models.Team, bool) {
	key := NormalizeTeamName(name)
	team, created := e.store.GetOrCreate(key, e.newID, func(id string) *models.Team {
		t := &models.Team{ID: id, Name: name}
		initTeam(t, e.clock.Now())
		return t
	})

	team.RLock()
	snapshot := team.Clone()
	team.RUnlock()

	if created {
		e.logger.Info("team created", "team_id", snapshot.ID, "team_name", snapshot.Name)
	} else {
		e.logger.Info("team reused", "team_id", snapshot.ID, "team_name", snapshot.Name, "requested_name", name)
	}
	return snapshot, created
}

// GetTeam returns a snapshot of the team
func (e *Engine) GetTeam(id string) (*models.Team, error) {
	team, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	team.RLock()
	defer team.RUnlock()
	return team.Clone(), nil
}

// ResetTeam reinitializes the team in place, keeping its ID and name
func (e *Engine) ResetTeam(id string) (*models.Team, error) {
	var snapshot *models.Team
	err := e.withTeam(id, func(team *models.Team) error {
		initTeam(team, e.clock.Now())
		snapshot = team.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("team reset", "team_id", id, "team_name", snapshot.Name)
	return snapshot, nil
}

// AllTeams summarizes every team in creation order
func (e *Engine) AllTeams() Overview {
	now := e.clock.Now()
	teams := e.store.All()
	ov := Overview{
		TotalTeams: len(teams),
		Teams:      make([]TeamSummary, 0, len(teams)),
	}
	for _, team := range teams {
		team.RLock()
		sum := summarize(team, now)
		team.RUnlock()

		if sum.Escaped {
			ov.EscapedTeams++
		} else {
			ov.TrappedTeams++
		}
		ov.Teams = append(ov.Teams, sum)
	}
	return ov
}
