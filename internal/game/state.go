package game

import (
	"time"

	"github.com/aaronzipp/escape-the-upside-down/internal/models"
)

// FailureKind classifies a rejected puzzle action
type FailureKind string

const (
	FailureInvalidAction      FailureKind = "invalid_action"
	FailurePreconditionFailed FailureKind = "precondition_failed"
)

// ActionResult is the outcome of one puzzle transition
type ActionResult struct {
	Success      bool
	Failure      FailureKind
	Message      string
	NextAction   string
	CodeRevealed string // set by a successful frequency scan
	ElevenItems  []string
	MikeItems    []string
}

// LookResult is what a role sees when looking around
type LookResult struct {
	Role       models.Role
	Location   string
	GateLocked bool
	Items      []string
}

// StatusProbe is the header-only readiness summary
type StatusProbe struct {
	Escaped     bool
	ElevenReady bool
	MikeReady   bool
	Sync        bool
	Elapsed     time.Duration
}

// EscapeRequirements is the static description returned by the OPTIONS probe
type EscapeRequirements struct {
	Allow         string
	Requires      string
	Preconditions string
	Warning       string
}

// EscapeResult is the outcome of one escape attempt
type EscapeResult struct {
	Success        bool
	AlreadyEscaped bool
	Attempts       int
	Window         time.Duration
	EscapeKey      string
	TimeTaken      time.Duration
	StepsUsed      []models.Step
	HintsUsed      int
}

// KeyResult is returned to a team that already escaped
type KeyResult struct {
	TeamName       string
	EscapeKey      string
	TimeTaken      time.Duration
	StepsCompleted int
	HintsUsed      int
}

// HintResult is either a hint or a cooldown notice
type HintResult struct {
	Cooldown       bool
	Remaining      int // whole seconds left on the cooldown
	Hint           string
	Role           models.Role
	HintsUsedTotal int
}

// TeamSummary is one row of the admin overview
type TeamSummary struct {
	ID             string
	Name           string
	Escaped        bool
	Phase          models.Phase
	Elapsed        time.Duration
	ElevenReady    bool
	MikeReady      bool
	StepsCount     int
	HintsUsed      int
	EscapeAttempts int
}

// Overview aggregates every team for the landing page and admin view
type Overview struct {
	TotalTeams   int
	EscapedTeams int
	TrappedTeams int
	Teams        []TeamSummary
}

// ReadyRoles returns the roles whose readiness flag is set
func ReadyRoles(team *models.Team) []models.Role {
	roles := make([]models.Role, 0, len(models.Roles))
	for _, r := range models.Roles {
		if team.Role(r).Ready(r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// RemainingSteps returns the steps the team has not invoked yet, in walkthrough order
func RemainingSteps(team *models.Team) []models.Step {
	var steps []models.Step
	for _, s := range AllSteps {
		if !team.HasStep(s) {
			steps = append(steps, s)
		}
	}
	return steps
}

// summarize must be called with the team's lock held
func summarize(team *models.Team, now time.Time) TeamSummary {
	return TeamSummary{
		ID:             team.ID,
		Name:           team.Name,
		Escaped:        team.Escaped,
		Phase:          team.Phase(),
		Elapsed:        now.Sub(team.StartTime),
		ElevenReady:    team.Eleven.HasFrequency,
		MikeReady:      team.Mike.HasGatePanel,
		StepsCount:     len(team.Steps),
		HintsUsed:      team.HintsUsed(),
		EscapeAttempts: len(team.EscapeAttempts),
	}
}
