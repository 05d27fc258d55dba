package handlers

import (
	"net/http"
	"strings"

	"github.com/aaronzipp/escape-the-upside-down/internal/render"
)

type createTeamRequest struct {
	TeamName *string `json:"team_name"`
}

func (req *createTeamRequest) missing() []string {
	return missingOf(field{"team_name", req.TeamName})
}

// HandleCreateTeam creates a team, or returns the existing team whose name
// matches case-insensitively
func (ctx *Context) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req createTeamRequest
	if err := decodeBody(r, &req); err != nil {
		ctx.writeError(w, r, err)
		return
	}

	team, created := ctx.Engine.CreateOrGetTeam(*req.TeamName)
	writeJSON(w, http.StatusOK, render.RenderTeamCreated(ctx.Story, team, *req.TeamName, created))
}

// HandleTeamStatus reports a team's full progress
func (ctx *Context) HandleTeamStatus(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/team_status/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeDetail(w, http.StatusNotFound, "Not Found")
		return
	}

	team, err := ctx.Engine.GetTeam(id)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, render.RenderTeamStatus(team, ctx.Engine.Now()))
}
