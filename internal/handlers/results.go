package handlers

import (
	"net/http"

	"github.com/aaronzipp/escape-the-upside-down/internal/models"
	"github.com/aaronzipp/escape-the-upside-down/internal/render"
	"github.com/aaronzipp/escape-the-upside-down/internal/sse"
)

type escapeRequest struct {
	Friend *string `json:"friend"`
}

func (req *escapeRequest) missing() []string {
	return missingOf(field{"friend", req.Friend})
}

func (ctx *Context) handleEscape(w http.ResponseWriter, r *http.Request, id string) {
	var req escapeRequest
	if err := decodeBody(r, &req); err != nil {
		ctx.writeError(w, r, err)
		return
	}

	res, err := ctx.Engine.AttemptEscape(id, models.Role(*req.Friend))
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}

	switch {
	case res.Success && !res.AlreadyEscaped:
		ctx.publish(id, sse.EventEscaped)
	case !res.Success:
		ctx.publish(id, sse.EventProgress)
	}
	writeJSON(w, http.StatusOK, render.RenderEscape(ctx.Story, res))
}

func (ctx *Context) handleKey(w http.ResponseWriter, r *http.Request, id string) {
	res, err := ctx.Engine.EscapeKey(id)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, render.RenderKey(ctx.Story, res))
}

// handleHint takes the optional friend query parameter as is; an unknown name
// gets the hint meant for both friends
func (ctx *Context) handleHint(w http.ResponseWriter, r *http.Request, id string) {
	role := models.Role(r.URL.Query().Get("friend"))
	res, err := ctx.Engine.Hint(id, role)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, render.RenderHint(ctx.Story, res))
}

func (ctx *Context) handleQR(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := ctx.Engine.GetTeam(id); err != nil {
		ctx.writeError(w, r, err)
		return
	}
	png, err := render.ShareQR(ctx.PublicURL, id)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
