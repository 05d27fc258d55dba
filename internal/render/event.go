package render

import (
	"time"

	"github.com/aaronzipp/escape-the-upside-down/internal/models"
)

// Progress is the data of every event on a team's live feed
type Progress struct {
	TeamID         string        `json:"team_id"`
	Phase          models.Phase  `json:"phase"`
	Escaped        bool          `json:"escaped"`
	EscapeKey      string        `json:"escape_key,omitempty"`
	ElevenReady    bool          `json:"eleven_ready"`
	MikeReady      bool          `json:"mike_ready"`
	ElevenItems    []string      `json:"eleven_items"`
	MikeItems      []string      `json:"mike_items"`
	StepsCompleted []models.Step `json:"steps_completed"`
	EscapeAttempts int           `json:"escape_attempts"`
	TimeElapsed    string        `json:"time_elapsed"`
}

// RenderProgress builds a feed event from a team snapshot
func RenderProgress(team *models.Team, now time.Time) Progress {
	return Progress{
		TeamID:         team.ID,
		Phase:          team.Phase(),
		Escaped:        team.Escaped,
		EscapeKey:      team.EscapeKey,
		ElevenReady:    team.Eleven.HasFrequency,
		MikeReady:      team.Mike.HasGatePanel,
		ElevenItems:    nonNil(team.Eleven.Items),
		MikeItems:      nonNil(team.Mike.Items),
		StepsCompleted: nonNil(team.Steps),
		EscapeAttempts: len(team.EscapeAttempts),
		TimeElapsed:    shortSeconds(now.Sub(team.StartTime)),
	}
}
