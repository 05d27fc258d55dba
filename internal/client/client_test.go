package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronzipp/escape-the-upside-down/internal/game"
	"github.com/aaronzipp/escape-the-upside-down/internal/handlers"
	"github.com/aaronzipp/escape-the-upside-down/internal/models"
	"github.com/aaronzipp/escape-the-upside-down/internal/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	engine := game.NewEngine(store.NewTeamStore())
	ctx := handlers.NewContext(engine, nil, nil, nil, "http://localhost:8000")
	srv := httptest.NewServer(ctx.Routes([]string{"*"}))
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func TestClient_Walkthrough(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateTeam(ctx, "Party")
	require.NoError(t, err)
	require.True(t, created.Created)
	id := created.TeamID

	look, err := c.Look(ctx, id, models.RoleEleven)
	require.NoError(t, err)
	assert.Equal(t, game.LocationEleven, look.Location)
	look, err = c.Look(ctx, id, models.RoleMike)
	require.NoError(t, err)
	assert.Equal(t, game.LocationMike, look.Location)

	res, err := c.SendItem(ctx, id, models.RoleMike, game.ItemTooth)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	res, err = c.UseItem(ctx, id, models.RoleEleven, game.ActionCombineRadioTooth)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	res, err = c.Fix(ctx, id, models.RoleEleven, game.ActionScanFrequency)
	require.NoError(t, err)
	require.Equal(t, game.GateCode, res.CodeRevealed)
	res, err = c.Remove(ctx, id, models.RoleMike, res.CodeRevealed)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	probe, err := c.Status(ctx, id)
	require.NoError(t, err)
	assert.True(t, probe.ElevenReady)
	assert.True(t, probe.MikeReady)
	assert.Equal(t, "STABLE", probe.DimensionSync)

	reqs, err := c.EscapeOptions(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "POST", reqs.Allow)
	assert.NotEmpty(t, reqs.Requires)

	first, err := c.Escape(ctx, id, models.RoleEleven)
	require.NoError(t, err)
	assert.False(t, first.Success)
	second, err := c.Escape(ctx, id, models.RoleMike)
	require.NoError(t, err)
	require.True(t, second.Success)

	key, err := c.Key(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, second.EscapeKey, key.EscapeKey)

	status, err := c.TeamStatus(ctx, id)
	require.NoError(t, err)
	assert.True(t, status.Escaped)
	assert.Len(t, status.StepsCompleted, 8)

	hint, err := c.Hint(ctx, id, models.RoleMike)
	require.NoError(t, err)
	assert.Contains(t, hint.Hint, "already escaped")

	all, err := c.AllTeams(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, all.EscapedTeams)

	overview, err := c.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, overview.TotalTeams)

	reset, err := c.ResetTeam(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, reset.Message, "Party")
}

func TestClient_Errors(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.TeamStatus(ctx, "nope")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Team not found", apiErr.Detail)

	created, err := c.CreateTeam(ctx, "Party")
	require.NoError(t, err)

	_, err = c.Escape(ctx, created.TeamID, models.RoleEleven)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Eleven needs to find the frequency first!", apiErr.Detail)

	_, err = c.Key(ctx, created.TeamID)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	_, err = c.Status(ctx, "nope")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
