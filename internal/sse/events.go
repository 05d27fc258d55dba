package sse

// SSE event type constants
const (
	EventProgress = "progress"
	EventEscaped  = "escaped"
	EventReset    = "reset"
)

// Message is one server-sent event
type Message struct {
	Event string
	Data  string
}
