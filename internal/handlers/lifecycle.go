package handlers

import (
	"net/http"
	"strings"

	"github.com/aaronzipp/escape-the-upside-down/internal/render"
	"github.com/aaronzipp/escape-the-upside-down/internal/sse"
)

// HandleAllTeams lists every team for monitoring
func (ctx *Context) HandleAllTeams(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, render.RenderAllTeams(ctx.Engine.AllTeams()))
}

// HandleResetTeam puts a team back to its starting state, keeping its id and name
func (ctx *Context) HandleResetTeam(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/reset_team/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeDetail(w, http.StatusNotFound, "Not Found")
		return
	}

	team, err := ctx.Engine.ResetTeam(id)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}

	ctx.publish(id, sse.EventReset)
	writeJSON(w, http.StatusOK, render.RenderReset(ctx.Story, team))
}
