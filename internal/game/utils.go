package game

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/aaronzipp/escape-the-upside-down/internal/models"
)

// GenerateTeamID creates a short random team ID
func GenerateTeamID() string {
	return uuid.NewString()[:TeamIDLength]
}

// NormalizeTeamName folds a team name for duplicate detection only.
// The stored name always keeps the spelling of the first creator.
func NormalizeTeamName(name string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(name))
}

// EscapeKeyFor synthesizes the escape key from the team name and the escape time
func EscapeKeyFor(teamName string, at time.Time) string {
	return EscapeKeyPrefix + teamName + "_" + strconv.FormatInt(at.Unix(), 10)
}

// isRadio is the prefix match used by the combine step
func isRadio(item string) bool {
	return strings.HasPrefix(item, radioPrefix)
}

// wholeSeconds truncates a duration to whole seconds
func wholeSeconds(d time.Duration) int {
	return int(d / time.Second)
}

// StepEndpoint returns the request that records the given step
func StepEndpoint(step models.Step) string {
	switch step {
	case models.StepLookEleven:
		return "GET /{team_id}/eleven"
	case models.StepLookMike:
		return "GET /{team_id}/mike"
	case models.StepSendItem:
		return "POST /{team_id}/send_item"
	case models.StepUseItem:
		return "PUT /{team_id}/use_item"
	case models.StepFix:
		return "PATCH /{team_id}/fix"
	case models.StepRemove:
		return "DELETE /{team_id}/remove"
	case models.StepStatus:
		return "HEAD /{team_id}/status"
	case models.StepOptions:
		return "OPTIONS /{team_id}/escape"
	default:
		return ""
	}
}

// AllSteps lists every step in walkthrough order
var AllSteps = []models.Step{
	models.StepLookEleven,
	models.StepLookMike,
	models.StepSendItem,
	models.StepUseItem,
	models.StepFix,
	models.StepRemove,
	models.StepStatus,
	models.StepOptions,
}
