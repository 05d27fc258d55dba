// Package story holds the narrative that decorates every response: what each
// friend sees around them and the lines printed when the puzzle moves on.
package story

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aaronzipp/escape-the-upside-down/internal/models"
)

//go:embed story.yaml
var defaultStory []byte

// Lines are the one-off narrative strings attached to responses
type Lines struct {
	TeamCreated     string `yaml:"team_created"`
	TeamFound       string `yaml:"team_found"`
	HintUsage       string `yaml:"hint_usage"`
	ToothSent       string `yaml:"tooth_sent"`
	RadioTuned      string `yaml:"radio_tuned"`
	FrequencyFound  string `yaml:"frequency_found"`
	PanelActivated  string `yaml:"panel_activated"`
	EscapeWaiting   string `yaml:"escape_waiting"`
	EscapeWarning   string `yaml:"escape_warning"`
	Escaped         string `yaml:"escaped"`
	Congratulations string `yaml:"congratulations"`
	StoryEnding     string `yaml:"story_ending"`
	Certificate     string `yaml:"certificate"` // %s is the team name
	HintCooldown    string `yaml:"hint_cooldown"`
	HintNote        string `yaml:"hint_note"`
	TeamReset       string `yaml:"team_reset"` // %s is the team name
}

// Story is the full narrative of the game
type Story struct {
	Title      string                          `yaml:"title"`
	Status     string                          `yaml:"status"`
	Tagline    string                          `yaml:"tagline"`
	ThemeMusic string                          `yaml:"theme_music"`
	Note       string                          `yaml:"note"`
	HintSystem string                          `yaml:"hint_system"`
	Characters map[models.Role]string          `yaml:"characters"`
	Locations  map[models.Role]models.Location `yaml:"locations"`
	Lines      Lines                           `yaml:"lines"`
}

// Default returns the embedded story. It panics if the embedded file is
// broken, which the package tests rule out.
func Default() *Story {
	s, err := Parse(defaultStory)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse decodes and validates a story document
func Parse(data []byte) (*Story, error) {
	var s Story
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing story: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Story) validate() error {
	if s.Title == "" {
		return fmt.Errorf("story has no title")
	}
	for _, role := range models.Roles {
		loc, ok := s.Locations[role]
		if !ok {
			return fmt.Errorf("story has no location for %s", role)
		}
		if loc.FriendLocation == "" || loc.Atmosphere == "" {
			return fmt.Errorf("story location for %s is incomplete", role)
		}
	}
	for _, role := range models.Roles {
		if _, ok := s.Characters[role]; !ok {
			return fmt.Errorf("story has no character line for %s", role)
		}
	}
	if err := checkNameLine("certificate", s.Lines.Certificate); err != nil {
		return err
	}
	return checkNameLine("team_reset", s.Lines.TeamReset)
}

// checkNameLine requires exactly one verb, a %s for the team name
func checkNameLine(key, line string) error {
	rest := strings.ReplaceAll(line, "%%", "")
	if strings.Count(rest, "%") != 1 || !strings.Contains(rest, "%s") {
		return fmt.Errorf("story line %s must contain exactly one %%s for the team name", key)
	}
	return nil
}

// Location returns the narrative around role; unknown roles get the zero value
func (s *Story) Location(role models.Role) models.Location {
	return s.Locations[role]
}

// Certificate returns the certificate line for an escaped team
func (s *Story) Certificate(teamName string) string {
	return fmt.Sprintf(s.Lines.Certificate, teamName)
}

// ResetMessage returns the admin reset confirmation
func (s *Story) ResetMessage(teamName string) string {
	return fmt.Sprintf(s.Lines.TeamReset, teamName)
}
