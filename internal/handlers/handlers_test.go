package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronzipp/escape-the-upside-down/internal/game"
	"github.com/aaronzipp/escape-the-upside-down/internal/store"
	"github.com/aaronzipp/escape-the-upside-down/internal/testutil"
)

var t0 = time.Date(2024, 11, 6, 19, 0, 0, 0, time.UTC)

type testServer struct {
	ctx     *Context
	handler http.Handler
	clock   *testutil.FakeClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	clock := testutil.NewFakeClock(t0)
	n := 0
	engine := game.NewEngine(store.NewTeamStore(),
		game.WithClock(clock),
		game.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("team%04d", n)
		}),
	)
	ctx := NewContext(engine, nil, nil, nil, "http://localhost:8000")
	return &testServer{ctx: ctx, handler: ctx.Routes([]string{"*"}), clock: clock}
}

// do sends a request with an optional JSON body and returns the recorder
func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) createTeam(t *testing.T, name string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/create_team", map[string]string{"team_name": name})
	require.Equal(t, http.StatusOK, rec.Code)
	return decode(t, rec)["team_id"].(string)
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)
	s.createTeam(t, "Party")

	rec := s.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, "Stranger Things: Escape the Upside Down", body["game"])
	assert.EqualValues(t, 1, body["total_teams"])
	assert.EqualValues(t, 0, body["escaped_teams"])

	assert.Equal(t, http.StatusMethodNotAllowed, s.do(t, http.MethodPost, "/", "{}").Code)
}

func TestCreateTeam(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/create_team", map[string]string{"team_name": "Hellfire Club"})
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode(t, rec)
	assert.Equal(t, "team0001", first["team_id"])
	assert.Equal(t, true, first["created"])
	assert.Equal(t, "Team 'Hellfire Club' created!", first["message"])

	rec = s.do(t, http.MethodPost, "/create_team", map[string]string{"team_name": "  hellfire CLUB "})
	again := decode(t, rec)
	assert.Equal(t, "team0001", again["team_id"])
	assert.Equal(t, "Hellfire Club", again["team_name"])
	assert.Equal(t, false, again["created"])
}

func TestCreateTeam_BadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		body   any
		code   int
	}{
		{"wrong method", http.MethodGet, nil, http.StatusMethodNotAllowed},
		{"no body", http.MethodPost, nil, http.StatusUnprocessableEntity},
		{"not json", http.MethodPost, "team_name=x", http.StatusUnprocessableEntity},
		{"missing field", http.MethodPost, map[string]string{"name": "x"}, http.StatusUnprocessableEntity},
		{"wrong type", http.MethodPost, `{"team_name": 7}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, "/create_team", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["detail"])
		})
	}
}

func TestUnknownTeamIs404Everywhere(t *testing.T) {
	s := newTestServer(t)

	requests := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/team_status/nope", nil},
		{http.MethodGet, "/nope/eleven", nil},
		{http.MethodGet, "/nope/mike", nil},
		{http.MethodPost, "/nope/send_item", map[string]string{"from_friend": "Mike", "item": "demogorgon tooth"}},
		{http.MethodPut, "/nope/use_item", map[string]string{"friend": "Eleven", "action": "combine_radio_tooth"}},
		{http.MethodPatch, "/nope/fix", map[string]string{"friend": "Eleven", "action": "scan_frequency"}},
		{http.MethodDelete, "/nope/remove", map[string]string{"friend": "Mike", "code": "0110"}},
		{http.MethodOptions, "/nope/escape", nil},
		{http.MethodPost, "/nope/escape", map[string]string{"friend": "Eleven"}},
		{http.MethodGet, "/nope/key", nil},
		{http.MethodGet, "/nope/hint", nil},
		{http.MethodGet, "/nope/events", nil},
		{http.MethodGet, "/nope/qr", nil},
		{http.MethodPost, "/admin/reset_team/nope", nil},
	}
	for _, tt := range requests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "Team not found", decode(t, rec)["detail"])
		})
	}

	// HEAD carries no body
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodHead, "/nope/status", nil).Code)
}

func TestUnknownRoutes(t *testing.T) {
	s := newTestServer(t)
	id := s.createTeam(t, "Party")

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/"+id+"/dustin", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/"+id+"/eleven/extra", nil).Code)

	rec := s.do(t, http.MethodGet, "/"+id+"/status", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "HEAD", rec.Header().Get("Allow"))

	rec = s.do(t, http.MethodGet, "/"+id+"/escape", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Allow"))
}

func TestFullWalkthrough(t *testing.T) {
	s := newTestServer(t)
	id := s.createTeam(t, "Party")
	base := "/" + id

	rec := s.do(t, http.MethodGet, base+"/eleven", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	look := decode(t, rec)
	assert.Equal(t, "Hawkins Lab (Real World)", look["location"])
	assert.Equal(t, "🔒 LOCKED", look["gate_status"])
	assert.Len(t, look["notes"], 3)

	rec = s.do(t, http.MethodGet, base+"/mike", nil)
	assert.Equal(t, "Upside Down Hawkins Lab", decode(t, rec)["location"])

	rec = s.do(t, http.MethodPost, base+"/send_item", map[string]string{"from_friend": "Mike", "item": "demogorgon tooth"})
	sent := decode(t, rec)
	require.Equal(t, true, sent["success"], sent["message"])
	assert.NotEmpty(t, sent["story_update"])

	rec = s.do(t, http.MethodPut, base+"/use_item", map[string]string{"friend": "Eleven", "action": "combine_radio_tooth"})
	require.Equal(t, true, decode(t, rec)["success"])

	rec = s.do(t, http.MethodPatch, base+"/fix", map[string]string{"friend": "Eleven", "action": "scan_frequency"})
	fix := decode(t, rec)
	require.Equal(t, true, fix["success"])
	assert.Equal(t, "0110", fix["code_revealed"])

	rec = s.do(t, http.MethodDelete, base+"/remove", map[string]string{"friend": "Mike", "code": "0110"})
	require.Equal(t, true, decode(t, rec)["success"])

	rec = s.do(t, http.MethodHead, base+"/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "STABLE", rec.Header().Get("X-Dimension-Sync"))
	assert.Equal(t, "YES", rec.Header().Get("X-Eleven-Ready"))
	assert.Equal(t, "YES", rec.Header().Get("X-Mike-Ready"))
	assert.Equal(t, "NO", rec.Header().Get("X-Escaped"))
	assert.Empty(t, rec.Body.String())

	rec = s.do(t, http.MethodOptions, base+"/escape", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))
	assert.Equal(t, "Both friends POST within 10 seconds", rec.Header().Get("X-Escape-Requires"))

	rec = s.do(t, http.MethodGet, base+"/key", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Team hasn't escaped the Upside Down yet!", decode(t, rec)["detail"])

	s.clock.Advance(100 * time.Second)
	rec = s.do(t, http.MethodPost, base+"/escape", map[string]string{"friend": "Eleven"})
	wait := decode(t, rec)
	assert.Equal(t, false, wait["success"])
	assert.Equal(t, "Waiting for friend... 1/2 attempts", wait["message"])

	s.clock.Advance(5 * time.Second)
	rec = s.do(t, http.MethodPost, base+"/escape", map[string]string{"friend": "Mike"})
	escaped := decode(t, rec)
	require.Equal(t, true, escaped["success"])
	assert.Equal(t, "ESCAPE_Party_1730919705", escaped["escape_key"])
	assert.Equal(t, "105 seconds", escaped["time_taken"])

	rec = s.do(t, http.MethodGet, base+"/key", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	key := decode(t, rec)
	assert.Equal(t, "ESCAPE_Party_1730919705", key["escape_key"])
	assert.EqualValues(t, 8, key["steps_completed"])
	assert.Equal(t, "Team Party successfully escaped the Upside Down!", key["certificate"])

	rec = s.do(t, http.MethodGet, "/team_status/"+id, nil)
	status := decode(t, rec)
	assert.Equal(t, true, status["escaped"])
	assert.Equal(t, "ESCAPED", status["phase"])
	assert.EqualValues(t, 2, status["escape_attempts"])
	assert.Empty(t, status["steps_remaining"])
	assert.Empty(t, status["next_requests"])
	assert.Equal(t, []any{"Eleven", "Mike"}, status["ready_friends"])
}

func TestPuzzleRejectionsAre200(t *testing.T) {
	s := newTestServer(t)
	id := s.createTeam(t, "Party")

	rec := s.do(t, http.MethodPost, "/"+id+"/send_item", map[string]string{"from_friend": "Eleven", "item": "radio"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "invalid_action", body["reason"])

	rec = s.do(t, http.MethodDelete, "/"+id+"/remove", map[string]string{"friend": "Mike", "code": "1234"})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "precondition_failed", body["reason"])

	rec = s.do(t, http.MethodPatch, "/"+id+"/fix", `{"friend": "Eleven"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEscapeNotReadyIs400(t *testing.T) {
	s := newTestServer(t)
	id := s.createTeam(t, "Party")

	rec := s.do(t, http.MethodPost, "/"+id+"/escape", map[string]string{"friend": "Eleven"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Eleven needs to find the frequency first!", decode(t, rec)["detail"])

	rec = s.do(t, http.MethodPost, "/"+id+"/escape", map[string]string{"friend": "Mike"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Mike needs to activate the gate panel first!", decode(t, rec)["detail"])
}

func TestHint(t *testing.T) {
	s := newTestServer(t)
	id := s.createTeam(t, "Party")

	rec := s.do(t, http.MethodGet, "/"+id+"/hint?friend=Mike", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode(t, rec)
	assert.Equal(t, "Mike", first["friend"])
	assert.EqualValues(t, 1, first["hints_used_total"])
	assert.NotEmpty(t, first["hint"])

	s.clock.Advance(12 * time.Second)
	rec = s.do(t, http.MethodGet, "/"+id+"/hint", nil)
	cool := decode(t, rec)
	assert.Equal(t, "18 seconds", cool["time_remaining"])
	assert.NotContains(t, cool, "hint")

	s.clock.Advance(30 * time.Second)
	rec = s.do(t, http.MethodGet, "/"+id+"/hint", nil)
	both := decode(t, rec)
	assert.Equal(t, "Both", both["friend"])
	assert.EqualValues(t, 1, both["hints_used_total"])
}

func TestAdmin(t *testing.T) {
	s := newTestServer(t)
	a := s.createTeam(t, "Alpha")
	s.createTeam(t, "Bravo")

	s.do(t, http.MethodPost, "/"+a+"/send_item", map[string]string{"from_friend": "Mike", "item": "demogorgon tooth"})

	rec := s.do(t, http.MethodGet, "/admin/all_teams", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode(t, rec)
	assert.EqualValues(t, 2, all["total_teams"])
	assert.EqualValues(t, 2, all["trapped_teams"])
	teams := all["teams"].([]any)
	require.Len(t, teams, 2)
	assert.Equal(t, "Alpha", teams[0].(map[string]any)["team_name"])
	assert.EqualValues(t, 1, teams[0].(map[string]any)["steps_count"])
	assert.Equal(t, "TRAPPED", teams[0].(map[string]any)["status"])

	rec = s.do(t, http.MethodPost, "/admin/reset_team/"+a, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Team 'Alpha' reset. The gate has reopened...", decode(t, rec)["message"])

	rec = s.do(t, http.MethodGet, "/team_status/"+a, nil)
	status := decode(t, rec)
	assert.Empty(t, status["steps_completed"])
	assert.Equal(t, []any{"demogorgon tooth", "broken walkie-talkie"}, status["mike_items"])

	assert.Equal(t, http.StatusMethodNotAllowed, s.do(t, http.MethodGet, "/admin/reset_team/"+a, nil).Code)
}

func TestQR(t *testing.T) {
	s := newTestServer(t)
	id := s.createTeam(t, "Party")

	rec := s.do(t, http.MethodGet, "/"+id+"/qr", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)
	id := s.createTeam(t, "Party")

	req := httptest.NewRequest(http.MethodOptions, "/"+id+"/escape", nil)
	req.Header.Set("Origin", "http://quiz.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://quiz.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Equal(t, "content-type", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Empty(t, rec.Header().Get("X-Escape-Requires"), "preflight does not hit the probe")

	snap, err := s.ctx.Engine.GetTeam(id)
	require.NoError(t, err)
	assert.Empty(t, snap.Steps)

	req = httptest.NewRequest(http.MethodHead, "/"+id+"/status", nil)
	req.Header.Set("Origin", "http://quiz.example")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-Dimension-Sync")
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	s := newTestServer(t)
	handler := s.ctx.Routes([]string{"http://allowed.example"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://other.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
