package handlers

import (
	"net/http"

	"github.com/aaronzipp/escape-the-upside-down/internal/models"
)

// Routes builds the full HTTP handler. Team routes live under "/{id}/..." so
// they are dispatched by hand from the catch-all pattern.
func (ctx *Context) Routes(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", ctx.HandleRoot)
	mux.HandleFunc("/create_team", ctx.HandleCreateTeam)
	mux.HandleFunc("/team_status/", ctx.HandleTeamStatus)
	mux.HandleFunc("/admin/all_teams", ctx.HandleAllTeams)
	mux.HandleFunc("/admin/reset_team/", ctx.HandleResetTeam)

	return ctx.logRequests(cors(allowedOrigins, mux))
}

// HandleRoot serves the overview at "/" and every per-team route
func (ctx *Context) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		ctx.HandleIndex(w, r)
		return
	}
	ctx.HandleTeamMux(w, r)
}

// HandleTeamMux routes "/{id}/{segment}" by segment and method
func (ctx *Context) HandleTeamMux(w http.ResponseWriter, r *http.Request) {
	id, seg, ok := splitTeamPath(r.URL.Path)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Not Found")
		return
	}

	switch seg {
	case "eleven":
		if allowMethods(w, r, http.MethodGet) {
			ctx.handleLook(w, r, id, models.RoleEleven)
		}
	case "mike":
		if allowMethods(w, r, http.MethodGet) {
			ctx.handleLook(w, r, id, models.RoleMike)
		}
	case "send_item":
		if allowMethods(w, r, http.MethodPost) {
			ctx.handleSendItem(w, r, id)
		}
	case "use_item":
		if allowMethods(w, r, http.MethodPut) {
			ctx.handleUseItem(w, r, id)
		}
	case "fix":
		if allowMethods(w, r, http.MethodPatch) {
			ctx.handleFix(w, r, id)
		}
	case "remove":
		if allowMethods(w, r, http.MethodDelete) {
			ctx.handleRemove(w, r, id)
		}
	case "status":
		if allowMethods(w, r, http.MethodHead) {
			ctx.handleStatus(w, r, id)
		}
	case "escape":
		if !allowMethods(w, r, http.MethodPost, http.MethodOptions) {
			return
		}
		if r.Method == http.MethodOptions {
			ctx.handleEscapeOptions(w, r, id)
			return
		}
		ctx.handleEscape(w, r, id)
	case "key":
		if allowMethods(w, r, http.MethodGet) {
			ctx.handleKey(w, r, id)
		}
	case "hint":
		if allowMethods(w, r, http.MethodGet) {
			ctx.handleHint(w, r, id)
		}
	case "events":
		if allowMethods(w, r, http.MethodGet) {
			ctx.handleEvents(w, r, id)
		}
	case "qr":
		if allowMethods(w, r, http.MethodGet) {
			ctx.handleQR(w, r, id)
		}
	default:
		writeDetail(w, http.StatusNotFound, "Not Found")
	}
}
