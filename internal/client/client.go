// Package client is a typed HTTP client for the escape API
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aaronzipp/escape-the-upside-down/internal/models"
	"github.com/aaronzipp/escape-the-upside-down/internal/render"
)

// APIError is a non-2xx answer from the server
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Detail)
}

// StatusProbe is the decoded HEAD /status answer
type StatusProbe struct {
	Escaped       bool
	ElevenReady   bool
	MikeReady     bool
	DimensionSync string
	Elapsed       time.Duration
}

// EscapeRequirements is the decoded OPTIONS /escape answer
type EscapeRequirements struct {
	Allow         string
	Requires      string
	Preconditions string
	Warning       string
}

// Client talks to one escape server
type Client struct {
	http *resty.Client
}

// New creates a client for the server at baseURL
func New(baseURL string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: rc}
}

func (c *Client) request(ctx context.Context, result any) *resty.Request {
	req := c.http.R().SetContext(ctx).SetError(&render.Error{})
	if result != nil {
		req.SetResult(result)
	}
	return req
}

// check turns transport failures and error statuses into errors
func check(resp *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode()}
		if body, ok := resp.Error().(*render.Error); ok && body != nil {
			apiErr.Detail = body.Detail
		}
		return nil, apiErr
	}
	return resp, nil
}

// Overview fetches the landing payload
func (c *Client) Overview(ctx context.Context) (*render.Overview, error) {
	var out render.Overview
	if _, err := check(c.request(ctx, &out).Get("/")); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTeam creates or joins the team with the given name
func (c *Client) CreateTeam(ctx context.Context, name string) (*render.TeamCreated, error) {
	var out render.TeamCreated
	req := c.request(ctx, &out).SetBody(map[string]string{"team_name": name})
	if _, err := check(req.Post("/create_team")); err != nil {
		return nil, err
	}
	return &out, nil
}

// TeamStatus fetches the full progress of a team
func (c *Client) TeamStatus(ctx context.Context, id string) (*render.TeamStatus, error) {
	var out render.TeamStatus
	req := c.request(ctx, &out).SetPathParam("id", id)
	if _, err := check(req.Get("/team_status/{id}")); err != nil {
		return nil, err
	}
	return &out, nil
}

// Look lets a friend look around
func (c *Client) Look(ctx context.Context, id string, role models.Role) (*render.Look, error) {
	seg := "eleven"
	if role == models.RoleMike {
		seg = "mike"
	}
	var out render.Look
	req := c.request(ctx, &out).SetPathParams(map[string]string{"id": id, "seg": seg})
	if _, err := check(req.Get("/{id}/{seg}")); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendItem sends an item across dimensions
func (c *Client) SendItem(ctx context.Context, id string, from models.Role, item string) (*render.Action, error) {
	return c.action(ctx, http.MethodPost, id, "send_item", map[string]string{"from_friend": string(from), "item": item})
}

// UseItem combines items
func (c *Client) UseItem(ctx context.Context, id string, role models.Role, action string) (*render.Action, error) {
	return c.action(ctx, http.MethodPut, id, "use_item", map[string]string{"friend": string(role), "action": action})
}

// Fix scans for the gate frequency
func (c *Client) Fix(ctx context.Context, id string, role models.Role, action string) (*render.Action, error) {
	return c.action(ctx, http.MethodPatch, id, "fix", map[string]string{"friend": string(role), "action": action})
}

// Remove activates the gate panel with a code
func (c *Client) Remove(ctx context.Context, id string, role models.Role, code string) (*render.Action, error) {
	return c.action(ctx, http.MethodDelete, id, "remove", map[string]string{"friend": string(role), "code": code})
}

func (c *Client) action(ctx context.Context, method, id, seg string, body map[string]string) (*render.Action, error) {
	var out render.Action
	req := c.request(ctx, &out).
		SetPathParams(map[string]string{"id": id, "seg": seg}).
		SetBody(body)
	if _, err := check(req.Execute(method, "/{id}/{seg}")); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status runs the HEAD readiness probe
func (c *Client) Status(ctx context.Context, id string) (*StatusProbe, error) {
	req := c.request(ctx, nil).SetPathParam("id", id)
	resp, err := check(req.Head("/{id}/status"))
	if err != nil {
		return nil, err
	}
	h := resp.Header()
	elapsed, _ := strconv.Atoi(h.Get("X-Time-Elapsed"))
	return &StatusProbe{
		Escaped:       h.Get("X-Escaped") == "YES",
		ElevenReady:   h.Get("X-Eleven-Ready") == "YES",
		MikeReady:     h.Get("X-Mike-Ready") == "YES",
		DimensionSync: h.Get("X-Dimension-Sync"),
		Elapsed:       time.Duration(elapsed) * time.Second,
	}, nil
}

// EscapeOptions runs the OPTIONS escape probe
func (c *Client) EscapeOptions(ctx context.Context, id string) (*EscapeRequirements, error) {
	req := c.request(ctx, nil).SetPathParam("id", id)
	resp, err := check(req.Options("/{id}/escape"))
	if err != nil {
		return nil, err
	}
	h := resp.Header()
	return &EscapeRequirements{
		Allow:         h.Get("Allow"),
		Requires:      h.Get("X-Escape-Requires"),
		Preconditions: h.Get("X-Preconditions"),
		Warning:       h.Get("X-Warning"),
	}, nil
}

// Escape attempts the escape for one friend
func (c *Client) Escape(ctx context.Context, id string, role models.Role) (*render.Escape, error) {
	var out render.Escape
	req := c.request(ctx, &out).
		SetPathParam("id", id).
		SetBody(map[string]string{"friend": string(role)})
	if _, err := check(req.Post("/{id}/escape")); err != nil {
		return nil, err
	}
	return &out, nil
}

// Key fetches the escape key of an escaped team
func (c *Client) Key(ctx context.Context, id string) (*render.Key, error) {
	var out render.Key
	req := c.request(ctx, &out).SetPathParam("id", id)
	if _, err := check(req.Get("/{id}/key")); err != nil {
		return nil, err
	}
	return &out, nil
}

// Hint asks for a hint; role may be empty
func (c *Client) Hint(ctx context.Context, id string, role models.Role) (*render.Hint, error) {
	var out render.Hint
	req := c.request(ctx, &out).SetPathParam("id", id)
	if role != "" {
		req.SetQueryParam("friend", string(role))
	}
	if _, err := check(req.Get("/{id}/hint")); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllTeams fetches the admin listing
func (c *Client) AllTeams(ctx context.Context) (*render.AllTeams, error) {
	var out render.AllTeams
	if _, err := check(c.request(ctx, &out).Get("/admin/all_teams")); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetTeam resets a team to its starting state
func (c *Client) ResetTeam(ctx context.Context, id string) (*render.Message, error) {
	var out render.Message
	req := c.request(ctx, &out).SetPathParam("id", id)
	if _, err := check(req.Post("/admin/reset_team/{id}")); err != nil {
		return nil, err
	}
	return &out, nil
}
