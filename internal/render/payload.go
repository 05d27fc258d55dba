package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aaronzipp/escape-the-upside-down/internal/game"
	"github.com/aaronzipp/escape-the-upside-down/internal/models"
	"github.com/aaronzipp/escape-the-upside-down/internal/story"
)

// Error is the body of every non-2xx response
type Error struct {
	Detail string `json:"detail"`
}

// Overview is the landing payload
type Overview struct {
	Game         string                 `json:"game"`
	Status       string                 `json:"status"`
	TotalTeams   int                    `json:"total_teams"`
	EscapedTeams int                    `json:"escaped_teams"`
	Story        string                 `json:"story"`
	Characters   map[models.Role]string `json:"characters"`
	HintSystem   string                 `json:"hint_system"`
	Instructions []string               `json:"instructions"`
	ThemeMusic   string                 `json:"theme_music"`
	Note         string                 `json:"note"`
}

// TeamCreated answers POST /create_team
type TeamCreated struct {
	TeamID       string `json:"team_id"`
	TeamName     string `json:"team_name"`
	Created      bool   `json:"created"`
	Message      string `json:"message"`
	Instructions string `json:"instructions"`
	Story        string `json:"story"`
	HintSystem   string `json:"hint_system"`
}

// TeamStatus is the full progress view of one team
type TeamStatus struct {
	TeamID             string        `json:"team_id"`
	TeamName           string        `json:"team_name"`
	Escaped            bool          `json:"escaped"`
	Phase              models.Phase  `json:"phase"`
	TimeElapsed        string        `json:"time_elapsed"`
	ElevenItems        []string      `json:"eleven_items"`
	MikeItems          []string      `json:"mike_items"`
	ElevenHasFrequency bool          `json:"eleven_has_frequency"`
	MikeHasGatePanel   bool          `json:"mike_has_gate_panel"`
	StepsCompleted     []models.Step `json:"steps_completed"`
	StepsRemaining     []models.Step `json:"steps_remaining"`
	NextRequests       []string      `json:"next_requests"`
	ReadyFriends       []models.Role `json:"ready_friends"`
	EscapeAttempts     int           `json:"escape_attempts"`
	HintsUsed          int           `json:"hints_used"`
	HintsGiven         int           `json:"hints_given"`
}

// Look is what a friend sees around them
type Look struct {
	Location       string   `json:"location"`
	GateStatus     string   `json:"gate_status"`
	Items          []string `json:"items"`
	Notes          []string `json:"notes"`
	FriendLocation string   `json:"friend_location"`
	Atmosphere     string   `json:"atmosphere"`
}

// Action is the outcome of send_item, use_item, fix and remove. Rejections
// carry Reason and the inventory that explains them.
type Action struct {
	Success      bool     `json:"success"`
	Reason       string   `json:"reason,omitempty"`
	Message      string   `json:"message"`
	ElevenItems  []string `json:"eleven_items,omitempty"`
	MikeItems    []string `json:"mike_items,omitempty"`
	NextAction   string   `json:"next_action,omitempty"`
	CodeRevealed string   `json:"code_revealed,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	Story        string   `json:"story,omitempty"`
	StoryUpdate  string   `json:"story_update,omitempty"`
	SoundEffect  string   `json:"sound_effect,omitempty"`
}

// Escape answers POST /escape
type Escape struct {
	Success         bool          `json:"success"`
	AlreadyEscaped  bool          `json:"already_escaped,omitempty"`
	Message         string        `json:"message"`
	EscapeKey       string        `json:"escape_key,omitempty"`
	TimeTaken       string        `json:"time_taken,omitempty"`
	StepsUsed       []models.Step `json:"steps_used,omitempty"`
	HintsUsed       int           `json:"hints_used,omitempty"`
	Story           string        `json:"story,omitempty"`
	Congratulations string        `json:"congratulations,omitempty"`
	TimeWindow      string        `json:"time_window,omitempty"`
	Warning         string        `json:"warning,omitempty"`
}

// Key answers GET /key
type Key struct {
	TeamName       string `json:"team_name"`
	EscapeKey      string `json:"escape_key"`
	TimeTaken      string `json:"time_taken"`
	StepsCompleted int    `json:"steps_completed"`
	HintsUsed      int    `json:"hints_used"`
	Escaped        bool   `json:"escaped"`
	StoryEnding    string `json:"story_ending"`
	Certificate    string `json:"certificate"`
}

// Hint is either a hint or a cooldown warning
type Hint struct {
	Hint           string `json:"hint,omitempty"`
	Friend         string `json:"friend,omitempty"`
	HintsUsedTotal *int   `json:"hints_used_total,omitempty"`
	Note           string `json:"note,omitempty"`
	Warning        string `json:"warning,omitempty"`
	TimeRemaining  string `json:"time_remaining,omitempty"`
}

// TeamRow is one team in the admin listing
type TeamRow struct {
	TeamID         string       `json:"team_id"`
	TeamName       string       `json:"team_name"`
	Escaped        bool         `json:"escaped"`
	Phase          models.Phase `json:"phase"`
	TimeElapsed    string       `json:"time_elapsed"`
	ElevenReady    bool         `json:"eleven_ready"`
	MikeReady      bool         `json:"mike_ready"`
	StepsCount     int          `json:"steps_count"`
	HintsUsed      int          `json:"hints_used"`
	EscapeAttempts int          `json:"escape_attempts"`
	Status         string       `json:"status"`
}

// AllTeams answers GET /admin/all_teams
type AllTeams struct {
	TotalTeams   int       `json:"total_teams"`
	EscapedTeams int       `json:"escaped_teams"`
	TrappedTeams int       `json:"trapped_teams"`
	Teams        []TeamRow `json:"teams"`
}

// Message is a bare confirmation
type Message struct {
	Message string `json:"message"`
}

// instructions is the numbered walkthrough shown on the landing page
var instructions = []string{
	`POST /create_team with {"team_name": "YourTeam"}`,
	"GET /{team_id}/eleven - Eleven looks around Hawkins Lab",
	"GET /{team_id}/mike - Mike looks around Upside Down",
	`POST /{team_id}/send_item with {"from_friend": "Mike", "item": "demogorgon tooth"}`,
	`PUT /{team_id}/use_item with {"friend": "Eleven", "action": "combine_radio_tooth"}`,
	`PATCH /{team_id}/fix with {"friend": "Eleven", "action": "scan_frequency"}`,
	`DELETE /{team_id}/remove with {"friend": "Mike", "code": "0110"}`,
	"HEAD /{team_id}/status - Check dimension sync",
	"OPTIONS /{team_id}/escape - See escape requirements",
	`POST /{team_id}/escape with {"friend": "Eleven"}`,
	`POST /{team_id}/escape with {"friend": "Mike"} (within 10s!)`,
	"GET /{team_id}/key - Get escape key",
	"GET /{team_id}/hint - Get help when stuck",
}

// RenderOverview builds the landing payload
func RenderOverview(st *story.Story, ov game.Overview) Overview {
	steps := make([]string, len(instructions))
	for i, line := range instructions {
		steps[i] = strconv.Itoa(i+1) + ". " + line
	}
	return Overview{
		Game:         st.Title,
		Status:       st.Status,
		TotalTeams:   ov.TotalTeams,
		EscapedTeams: ov.EscapedTeams,
		Story:        st.Tagline,
		Characters:   st.Characters,
		HintSystem:   st.HintSystem,
		Instructions: steps,
		ThemeMusic:   st.ThemeMusic,
		Note:         st.Note,
	}
}

// RenderTeamCreated builds the create_team payload. requested is the name
// as sent, which differs from the stored name when an existing team matched.
func RenderTeamCreated(st *story.Story, team *models.Team, requested string, created bool) TeamCreated {
	res := TeamCreated{
		TeamID:       team.ID,
		TeamName:     team.Name,
		Created:      created,
		Instructions: "Share this team_id with both friends: " + team.ID,
		HintSystem:   st.Lines.HintUsage,
	}
	if created {
		res.Message = fmt.Sprintf("Team '%s' created!", team.Name)
		res.Story = st.Lines.TeamCreated
	} else {
		res.Message = fmt.Sprintf("Team '%s' found (matches '%s'). Returning existing ID.", requested, team.Name)
		res.Story = st.Lines.TeamFound
	}
	return res
}

// RenderTeamStatus builds the progress view from a snapshot
func RenderTeamStatus(team *models.Team, now time.Time) TeamStatus {
	remaining := game.RemainingSteps(team)
	requests := make([]string, 0, len(remaining))
	for _, step := range remaining {
		requests = append(requests, strings.ReplaceAll(game.StepEndpoint(step), "{team_id}", team.ID))
	}
	return TeamStatus{
		TeamID:             team.ID,
		TeamName:           team.Name,
		Escaped:            team.Escaped,
		Phase:              team.Phase(),
		TimeElapsed:        shortSeconds(now.Sub(team.StartTime)),
		ElevenItems:        nonNil(team.Eleven.Items),
		MikeItems:          nonNil(team.Mike.Items),
		ElevenHasFrequency: team.Eleven.HasFrequency,
		MikeHasGatePanel:   team.Mike.HasGatePanel,
		StepsCompleted:     nonNil(team.Steps),
		StepsRemaining:     nonNil(remaining),
		NextRequests:       requests,
		ReadyFriends:       game.ReadyRoles(team),
		EscapeAttempts:     len(team.EscapeAttempts),
		HintsUsed:          team.HintsUsed(),
		HintsGiven:         len(team.Hints),
	}
}

// RenderLook decorates a look result with the role's narrative
func RenderLook(st *story.Story, res *game.LookResult) Look {
	loc := st.Location(res.Role)
	gate := "🔓 UNLOCKED"
	if res.GateLocked {
		gate = "🔒 LOCKED"
	}
	return Look{
		Location:       res.Location,
		GateStatus:     gate,
		Items:          nonNil(res.Items),
		Notes:          nonNil(loc.Notes),
		FriendLocation: loc.FriendLocation,
		Atmosphere:     loc.Atmosphere,
	}
}

// RenderAction decorates the outcome of one puzzle step
func RenderAction(st *story.Story, step models.Step, res *game.ActionResult) Action {
	out := Action{
		Success:     res.Success,
		Reason:      string(res.Failure),
		Message:     res.Message,
		ElevenItems: res.ElevenItems,
		MikeItems:   res.MikeItems,
	}
	if !res.Success {
		return out
	}

	switch step {
	case models.StepSendItem:
		out.NextAction = res.NextAction
		out.StoryUpdate = st.Lines.ToothSent
	case models.StepUseItem:
		out.NextAction = res.NextAction
		out.SoundEffect = st.Lines.RadioTuned
	case models.StepFix:
		out.CodeRevealed = res.CodeRevealed
		out.Instructions = res.NextAction
		out.Story = st.Lines.FrequencyFound
	case models.StepRemove:
		out.Instructions = res.NextAction
		out.Story = st.Lines.PanelActivated
	}
	return out
}

// RenderEscape builds the escape payload
func RenderEscape(st *story.Story, res *game.EscapeResult) Escape {
	if !res.Success {
		// The display never claims more than the two attempts that matter.
		shown := min(res.Attempts, 2)
		return Escape{
			Message:    fmt.Sprintf("Waiting for friend... %d/2 attempts", shown),
			TimeWindow: st.Lines.EscapeWaiting,
			Warning:    st.Lines.EscapeWarning,
		}
	}

	out := Escape{
		Success:         true,
		AlreadyEscaped:  res.AlreadyEscaped,
		Message:         "ESCAPE SUCCESSFUL! The gate closes behind you.",
		EscapeKey:       res.EscapeKey,
		TimeTaken:       longSeconds(res.TimeTaken),
		StepsUsed:       res.StepsUsed,
		HintsUsed:       res.HintsUsed,
		Story:           st.Lines.Escaped,
		Congratulations: st.Lines.Congratulations,
	}
	if res.AlreadyEscaped {
		out.Message = "Already escaped! The gate is closed behind you."
	}
	return out
}

// RenderKey builds the escape key payload
func RenderKey(st *story.Story, res *game.KeyResult) Key {
	return Key{
		TeamName:       res.TeamName,
		EscapeKey:      res.EscapeKey,
		TimeTaken:      longSeconds(res.TimeTaken),
		StepsCompleted: res.StepsCompleted,
		HintsUsed:      res.HintsUsed,
		Escaped:        true,
		StoryEnding:    st.Lines.StoryEnding,
		Certificate:    st.Certificate(res.TeamName),
	}
}

// RenderHint builds the hint payload
func RenderHint(st *story.Story, res *game.HintResult) Hint {
	if res.Cooldown {
		return Hint{
			Warning:       st.Lines.HintCooldown,
			TimeRemaining: strconv.Itoa(res.Remaining) + " seconds",
		}
	}
	friend := string(res.Role)
	if friend == "" {
		friend = "Both"
	}
	total := res.HintsUsedTotal
	return Hint{
		Hint:           res.Hint,
		Friend:         friend,
		HintsUsedTotal: &total,
		Note:           st.Lines.HintNote,
	}
}

// RenderAllTeams builds the admin listing
func RenderAllTeams(ov game.Overview) AllTeams {
	rows := make([]TeamRow, 0, len(ov.Teams))
	for _, sum := range ov.Teams {
		status := "TRAPPED"
		if sum.Escaped {
			status = "ESCAPED"
		}
		rows = append(rows, TeamRow{
			TeamID:         sum.ID,
			TeamName:       sum.Name,
			Escaped:        sum.Escaped,
			Phase:          sum.Phase,
			TimeElapsed:    shortSeconds(sum.Elapsed),
			ElevenReady:    sum.ElevenReady,
			MikeReady:      sum.MikeReady,
			StepsCount:     sum.StepsCount,
			HintsUsed:      sum.HintsUsed,
			EscapeAttempts: sum.EscapeAttempts,
			Status:         status,
		})
	}
	return AllTeams{
		TotalTeams:   ov.TotalTeams,
		EscapedTeams: ov.EscapedTeams,
		TrappedTeams: ov.TrappedTeams,
		Teams:        rows,
	}
}

// RenderReset builds the reset confirmation
func RenderReset(st *story.Story, team *models.Team) Message {
	return Message{Message: st.ResetMessage(team.Name)}
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}

// shortSeconds formats "12s"
func shortSeconds(d time.Duration) string {
	return strconv.Itoa(seconds(d)) + "s"
}

// longSeconds formats "12 seconds"
func longSeconds(d time.Duration) string {
	return strconv.Itoa(seconds(d)) + " seconds"
}

// nonNil keeps empty lists as [] instead of null on the wire
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
