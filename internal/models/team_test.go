package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeam_Role(t *testing.T) {
	team := &Team{Eleven: &RoleState{Location: "real"}, Mike: &RoleState{Location: "upside"}}

	assert.Same(t, team.Eleven, team.Role(RoleEleven))
	assert.Same(t, team.Mike, team.Role(RoleMike))
	for _, name := range []Role{"", "eleven", "MIKE", "Dustin"} {
		assert.False(t, name.Valid(), name)
		assert.Nil(t, team.Role(name), name)
	}
}

func TestTeam_BothReady(t *testing.T) {
	team := &Team{Eleven: &RoleState{}, Mike: &RoleState{}}
	assert.False(t, team.BothReady())

	team.Eleven.HasFrequency = true
	assert.False(t, team.BothReady())

	team.Mike.HasGatePanel = true
	assert.True(t, team.BothReady())
	assert.Equal(t, PhaseReady, team.Phase())
}
