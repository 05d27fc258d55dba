package sse

import (
	"io"
	"log/slog"
	"maps"
	"sync"
	"time"
)

const (
	// BufferSize is the per-client channel capacity
	BufferSize = 16

	// SendTimeout bounds how long a broadcast waits on one slow client
	SendTimeout = 2 * time.Second
)

// Hub fans team events out to every connected feed of that team
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[chan Message]struct{} // team ID -> clients
	timeout time.Duration
	logger  *slog.Logger

	queueMu sync.Mutex
	queues  map[string]*teamQueue
}

// teamQueue holds messages waiting for delivery to one team's feeds
type teamQueue struct {
	pending  []Message
	draining bool
}

// NewHub creates an empty hub. A nil logger discards output.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Hub{
		clients: make(map[string]map[chan Message]struct{}),
		timeout: SendTimeout,
		logger:  logger,
		queues:  make(map[string]*teamQueue),
	}
}

// Subscribe registers a new feed for the team
func (h *Hub) Subscribe(teamID string) chan Message {
	client := make(chan Message, BufferSize)

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[teamID]
	if !ok {
		set = make(map[chan Message]struct{})
		h.clients[teamID] = set
	}
	set[client] = struct{}{}
	h.logger.Debug("sse client added", "team_id", teamID, "clients", len(set))
	return client
}

// Unsubscribe removes a feed; the channel is not closed because a broadcast
// may still hold it
func (h *Hub) Unsubscribe(teamID string, client chan Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[teamID]
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, teamID)
	}
	h.logger.Debug("sse client removed", "team_id", teamID, "clients", len(set))
}

// ClientCount returns the number of feeds open for the team
func (h *Hub) ClientCount(teamID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[teamID])
}

// Broadcast sends a message to every feed of the team and reports how many
// received it. Clients that stay full past the timeout are skipped.
func (h *Hub) Broadcast(teamID, event, data string) int {
	h.mu.RLock()
	clients := maps.Clone(h.clients[teamID])
	h.mu.RUnlock()

	if len(clients) == 0 {
		return 0
	}

	// Send WITHOUT holding the lock
	msg := Message{Event: event, Data: data}
	sent := 0
	for client := range clients {
		select {
		case client <- msg:
			sent++
		case <-time.After(h.timeout):
			h.logger.Warn("sse send timed out", "team_id", teamID, "event", event)
		}
	}
	h.logger.Debug("sse broadcast", "team_id", teamID, "event", event, "sent", sent, "clients", len(clients))
	return sent
}

// Publish queues a message for the team and returns immediately. Messages of
// one team are delivered in publish order by a single goroutine that exits
// once the queue is empty.
func (h *Hub) Publish(teamID, event, data string) {
	h.queueMu.Lock()
	q, ok := h.queues[teamID]
	if !ok {
		q = &teamQueue{}
		h.queues[teamID] = q
	}
	q.pending = append(q.pending, Message{Event: event, Data: data})
	if q.draining {
		h.queueMu.Unlock()
		return
	}
	q.draining = true
	h.queueMu.Unlock()

	go h.drain(teamID, q)
}

func (h *Hub) drain(teamID string, q *teamQueue) {
	for {
		h.queueMu.Lock()
		if len(q.pending) == 0 {
			q.draining = false
			delete(h.queues, teamID)
			h.queueMu.Unlock()
			return
		}
		msg := q.pending[0]
		q.pending = q.pending[1:]
		h.queueMu.Unlock()

		h.Broadcast(teamID, msg.Event, msg.Data)
	}
}
