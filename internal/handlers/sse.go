package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aaronzipp/escape-the-upside-down/internal/render"
	"github.com/aaronzipp/escape-the-upside-down/internal/sse"
)

// publish queues the team's current progress for its live feeds. It must be
// called after the engine released the team's lock; delivery happens off the
// request goroutine.
func (ctx *Context) publish(id, event string) {
	if ctx.Hub.ClientCount(id) == 0 {
		return
	}
	data, err := ctx.progressData(id)
	if err != nil {
		ctx.Logger.Warn("progress event skipped", "team_id", id, "error", err)
		return
	}
	ctx.Hub.Publish(id, event, data)
}

func (ctx *Context) progressData(id string) (string, error) {
	team, err := ctx.Engine.GetTeam(id)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(render.RenderProgress(team, ctx.Engine.Now()))
	if err != nil {
		return "", fmt.Errorf("encoding progress: %w", err)
	}
	return string(data), nil
}

// handleEvents streams the team's progress as Server-Sent Events
func (ctx *Context) handleEvents(w http.ResponseWriter, r *http.Request, id string) {
	initial, err := ctx.progressData(id)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeDetail(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	// The stream outlives the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable buffering in nginx/proxies

	client := ctx.Hub.Subscribe(id)
	defer ctx.Hub.Unsubscribe(id, client)
	ctx.Logger.Debug("event stream opened", "team_id", id)

	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", sse.EventProgress, initial)
	flusher.Flush()

	reqCtx := r.Context()
	for {
		select {
		case <-reqCtx.Done():
			ctx.Logger.Debug("event stream closed", "team_id", id)
			return
		case msg := <-client:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
			flusher.Flush()
		}
	}
}
