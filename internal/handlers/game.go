package handlers

import (
	"net/http"

	"github.com/aaronzipp/escape-the-upside-down/internal/game"
	"github.com/aaronzipp/escape-the-upside-down/internal/models"
	"github.com/aaronzipp/escape-the-upside-down/internal/render"
	"github.com/aaronzipp/escape-the-upside-down/internal/sse"
)

type sendItemRequest struct {
	FromFriend *string `json:"from_friend"`
	Item       *string `json:"item"`
}

func (req *sendItemRequest) missing() []string {
	return missingOf(field{"from_friend", req.FromFriend}, field{"item", req.Item})
}

// actionRequest is the body of use_item and fix
type actionRequest struct {
	Friend *string `json:"friend"`
	Action *string `json:"action"`
}

func (req *actionRequest) missing() []string {
	return missingOf(field{"friend", req.Friend}, field{"action", req.Action})
}

type removeRequest struct {
	Friend *string `json:"friend"`
	Code   *string `json:"code"`
}

func (req *removeRequest) missing() []string {
	return missingOf(field{"friend", req.Friend}, field{"code", req.Code})
}

func (ctx *Context) handleLook(w http.ResponseWriter, r *http.Request, id string, role models.Role) {
	res, err := ctx.Engine.Look(id, role)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	ctx.publish(id, sse.EventProgress)
	writeJSON(w, http.StatusOK, render.RenderLook(ctx.Story, res))
}

func (ctx *Context) handleSendItem(w http.ResponseWriter, r *http.Request, id string) {
	var req sendItemRequest
	if err := decodeBody(r, &req); err != nil {
		ctx.writeError(w, r, err)
		return
	}
	res, err := ctx.Engine.SendItem(id, models.Role(*req.FromFriend), *req.Item)
	ctx.writeAction(w, r, id, models.StepSendItem, res, err)
}

func (ctx *Context) handleUseItem(w http.ResponseWriter, r *http.Request, id string) {
	var req actionRequest
	if err := decodeBody(r, &req); err != nil {
		ctx.writeError(w, r, err)
		return
	}
	res, err := ctx.Engine.UseItem(id, models.Role(*req.Friend), *req.Action)
	ctx.writeAction(w, r, id, models.StepUseItem, res, err)
}

func (ctx *Context) handleFix(w http.ResponseWriter, r *http.Request, id string) {
	var req actionRequest
	if err := decodeBody(r, &req); err != nil {
		ctx.writeError(w, r, err)
		return
	}
	res, err := ctx.Engine.Fix(id, models.Role(*req.Friend), *req.Action)
	ctx.writeAction(w, r, id, models.StepFix, res, err)
}

func (ctx *Context) handleRemove(w http.ResponseWriter, r *http.Request, id string) {
	var req removeRequest
	if err := decodeBody(r, &req); err != nil {
		ctx.writeError(w, r, err)
		return
	}
	res, err := ctx.Engine.Remove(id, models.Role(*req.Friend), *req.Code)
	ctx.writeAction(w, r, id, models.StepRemove, res, err)
}

// writeAction answers a puzzle step; rejections are still 200
func (ctx *Context) writeAction(w http.ResponseWriter, r *http.Request, id string, step models.Step, res *game.ActionResult, err error) {
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	ctx.publish(id, sse.EventProgress)
	writeJSON(w, http.StatusOK, render.RenderAction(ctx.Story, step, res))
}

func (ctx *Context) handleStatus(w http.ResponseWriter, r *http.Request, id string) {
	probe, err := ctx.Engine.Status(id)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	ctx.publish(id, sse.EventProgress)
	render.StatusHeaders(w.Header(), probe)
	w.WriteHeader(http.StatusOK)
}

func (ctx *Context) handleEscapeOptions(w http.ResponseWriter, r *http.Request, id string) {
	req, err := ctx.Engine.EscapeOptions(id)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	ctx.publish(id, sse.EventProgress)
	render.EscapeOptionHeaders(w.Header(), req)
	w.WriteHeader(http.StatusOK)
}
