package story

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronzipp/escape-the-upside-down/internal/models"
)

func TestDefault(t *testing.T) {
	s := Default()

	assert.Equal(t, "Stranger Things: Escape the Upside Down", s.Title)
	for _, role := range models.Roles {
		loc := s.Location(role)
		assert.NotEmpty(t, loc.FriendLocation, role)
		assert.NotEmpty(t, loc.Atmosphere, role)
		assert.Len(t, loc.Notes, 3, role)
		assert.NotEmpty(t, s.Characters[role], role)
	}
	assert.Contains(t, s.Location(models.RoleEleven).FriendLocation, "Mike")
	assert.Contains(t, s.Location(models.RoleMike).FriendLocation, "Eleven")
	assert.Contains(t, s.Lines.FrequencyFound, "0110")
}

func TestFormattedLines(t *testing.T) {
	s := Default()

	assert.Equal(t, "Team Party successfully escaped the Upside Down!", s.Certificate("Party"))
	assert.Equal(t, "Team 'Party' reset. The gate has reopened...", s.ResetMessage("Party"))
}

func TestLocation_UnknownRole(t *testing.T) {
	s := Default()
	assert.Equal(t, models.Location{}, s.Location("Dustin"))
}

const validBase = "title: x\n" +
	"characters: {Eleven: a, Mike: b}\n" +
	"locations:\n" +
	"  Eleven: {friend_location: a, atmosphere: b}\n" +
	"  Mike: {friend_location: a, atmosphere: b}\n"

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"not yaml", "title: [unclosed", "parsing story"},
		{"no title", "characters: {}", "no title"},
		{
			"missing location",
			"title: x\nlocations:\n  Eleven: {friend_location: a, atmosphere: b}\n",
			"no location for Mike",
		},
		{
			"incomplete location",
			"title: x\nlocations:\n  Eleven: {friend_location: a}\n  Mike: {friend_location: a, atmosphere: b}\n",
			"incomplete",
		},
		{
			"missing character",
			"title: x\nlocations:\n  Eleven: {friend_location: a, atmosphere: b}\n  Mike: {friend_location: a, atmosphere: b}\n",
			"no character line",
		},
		{
			"certificate without name",
			validBase + "lines: {certificate: Escaped!, team_reset: \"Team %s reset\"}\n",
			"certificate must contain exactly one %s",
		},
		{
			"reset line with two verbs",
			validBase + "lines: {certificate: \"Team %s escaped\", team_reset: \"%s reset %d\"}\n",
			"team_reset must contain exactly one %s",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_NameLines(t *testing.T) {
	s, err := Parse([]byte(validBase + "lines: {certificate: \"100%% done, %s\", team_reset: \"Team %s reset\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, "100% done, Party", s.Certificate("Party"))
	assert.Equal(t, "Team Party reset", s.ResetMessage("Party"))
}
