package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/aaronzipp/escape-the-upside-down/internal/game"
	"github.com/aaronzipp/escape-the-upside-down/internal/render"
)

// errMalformed marks request bodies that cannot be processed
var errMalformed = errors.New("malformed request body")

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes the error body used for every non-2xx response
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, render.Error{Detail: detail})
}

// writeError maps an engine or decoding error onto its status code
func (ctx *Context) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ge *game.Error
	switch {
	case game.IsNotFound(err):
		writeDetail(w, http.StatusNotFound, "Team not found")
	case game.IsInvalidState(err), game.IsPreconditionFailed(err):
		msg := err.Error()
		if errors.As(err, &ge) {
			msg = ge.Message
		}
		writeDetail(w, http.StatusBadRequest, msg)
	case errors.Is(err, errMalformed):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	default:
		ctx.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// allowMethods rejects any method not listed with 405
func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	if slices.Contains(methods, r.Method) {
		return true
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	return false
}

// requiredFields is implemented by request bodies to report missing fields
type requiredFields interface {
	missing() []string
}

// decodeBody reads a JSON body into req and checks its required fields
func decodeBody(r *http.Request, req requiredFields) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return fmt.Errorf("%w: body is required", errMalformed)
	}
	if err := json.Unmarshal(body, req); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if missing := req.missing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing field(s) %s", errMalformed, strings.Join(missing, ", "))
	}
	return nil
}

// field is one required body field
type field struct {
	name  string
	value *string
}

// missingOf returns the names of fields absent from the body
func missingOf(fields ...field) []string {
	var names []string
	for _, f := range fields {
		if f.value == nil {
			names = append(names, f.name)
		}
	}
	return names
}

// splitTeamPath splits "/{id}/{segment}" into its two parts
func splitTeamPath(path string) (id, seg string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
