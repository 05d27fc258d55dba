package render

import (
	"net/http"
	"strconv"

	"github.com/aaronzipp/escape-the-upside-down/internal/game"
)

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// StatusHeaders writes the HEAD /status probe into h
func StatusHeaders(h http.Header, p *game.StatusProbe) {
	sync := "UNSTABLE"
	if p.Sync {
		sync = "STABLE"
	}
	h.Set("X-Team-Status", "ACTIVE")
	h.Set("X-Escaped", yesNo(p.Escaped))
	h.Set("X-Eleven-Ready", yesNo(p.ElevenReady))
	h.Set("X-Mike-Ready", yesNo(p.MikeReady))
	h.Set("X-Time-Elapsed", strconv.Itoa(seconds(p.Elapsed)))
	h.Set("X-Dimension-Sync", sync)
}

// EscapeOptionHeaders writes the OPTIONS /escape probe into h
func EscapeOptionHeaders(h http.Header, req *game.EscapeRequirements) {
	h.Set("Allow", req.Allow)
	h.Set("X-Escape-Requires", req.Requires)
	h.Set("X-Preconditions", req.Preconditions)
	h.Set("X-Warning", req.Warning)
}
