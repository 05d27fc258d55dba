package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaronzipp/escape-the-upside-down/internal/game"
	"github.com/aaronzipp/escape-the-upside-down/internal/logging"
	"github.com/aaronzipp/escape-the-upside-down/internal/render"
	"github.com/aaronzipp/escape-the-upside-down/internal/sse"
	"github.com/aaronzipp/escape-the-upside-down/internal/story"
)

// Context holds shared application dependencies
type Context struct {
	Engine    *game.Engine
	Hub       *sse.Hub
	Story     *story.Story
	Logger    *slog.Logger
	PublicURL string
}

// NewContext wires the handler dependencies, filling in defaults for the
// optional ones
func NewContext(engine *game.Engine, hub *sse.Hub, st *story.Story, logger *slog.Logger, publicURL string) *Context {
	if logger == nil {
		logger = logging.Discard()
	}
	if hub == nil {
		hub = sse.NewHub(logger)
	}
	if st == nil {
		st = story.Default()
	}
	return &Context{
		Engine:    engine,
		Hub:       hub,
		Story:     st,
		Logger:    logger,
		PublicURL: publicURL,
	}
}

// HandleIndex serves the game overview
func (ctx *Context) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, render.RenderOverview(ctx.Story, ctx.Engine.AllTeams()))
}
