package game

import (
	"slices"

	"github.com/aaronzipp/escape-the-upside-down/internal/models"
)

// AttemptEscape records an escape attempt by role and escapes the team when
// the two most recent attempts are at most EscapeWindow apart, whoever made
// them. Once the team has escaped, further attempts change nothing and report
// the escaped state.
func (e *Engine) AttemptEscape(id string, role models.Role) (*EscapeResult, error) {
	var res *EscapeResult
	err := e.withTeam(id, func(team *models.Team) error {
		if team.Escaped {
			res = escapedResult(team)
			res.AlreadyEscaped = true
			return nil
		}

		state := team.Role(role)
		if state == nil {
			return newPreconditionFailed(id, "Unknown friend '"+string(role)+"'")
		}
		if !state.Ready(role) {
			e.logger.Info("escape attempt rejected", "team_id", id, "role", role)
			if role == models.RoleEleven {
				return newPreconditionFailed(id, "Eleven needs to find the frequency first!")
			}
			return newPreconditionFailed(id, "Mike needs to activate the gate panel first!")
		}

		now := e.clock.Now()
		team.EscapeAttempts = append(team.EscapeAttempts, models.EscapeAttempt{Role: role, Time: now})

		n := len(team.EscapeAttempts)
		if n >= 2 {
			last, prev := team.EscapeAttempts[n-1], team.EscapeAttempts[n-2]
			gap := last.Time.Sub(prev.Time)
			if gap < 0 {
				gap = -gap
			}
			if gap <= EscapeWindow {
				team.Escaped = true
				team.EndTime = now
				team.EscapeKey = EscapeKeyFor(team.Name, now)
				res = escapedResult(team)
				e.logger.Info("team escaped", "team_id", id, "gap", gap, "time_taken", res.TimeTaken)
				return nil
			}
		}

		res = &EscapeResult{Attempts: n, Window: EscapeWindow}
		e.logger.Debug("escape attempt waiting", "team_id", id, "role", role, "attempts", n)
		return nil
	})
	return res, err
}

// escapedResult must be called with the team's lock held
func escapedResult(team *models.Team) *EscapeResult {
	return &EscapeResult{
		Success:   true,
		Attempts:  len(team.EscapeAttempts),
		Window:    EscapeWindow,
		EscapeKey: team.EscapeKey,
		TimeTaken: team.EndTime.Sub(team.StartTime),
		StepsUsed: slices.Clone(team.Steps),
		HintsUsed: team.HintsUsed(),
	}
}

// EscapeKey returns the key of an escaped team. It never mutates state.
func (e *Engine) EscapeKey(id string) (*KeyResult, error) {
	team, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	team.RLock()
	defer team.RUnlock()

	if !team.Escaped {
		return nil, newInvalidState(id, "Team hasn't escaped the Upside Down yet!")
	}
	return &KeyResult{
		TeamName:       team.Name,
		EscapeKey:      team.EscapeKey,
		TimeTaken:      team.EndTime.Sub(team.StartTime),
		StepsCompleted: len(team.Steps),
		HintsUsed:      team.HintsUsed(),
	}, nil
}
