package loop

import (
	"sync"
	"time"
)

// Hub tracks the clients of one process so a server can announce shutdown and
// wait for players to leave. Every client plays its own private session; the
// hub shares nothing but the shutdown signal and the player count.
type Hub struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int
	shuttingDown bool
}

// ClientHandle represents a client's registration with the hub.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan HubEvent // Events sent to the client
}

// HubEvent represents an event sent from the hub to a client.
type HubEvent struct {
	Type HubEventType
}

// HubEventType identifies the type of hub event.
type HubEventType int

const (
	EventServerShutdown HubEventType = iota
)

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
	}
}

// RegisterClient registers a client and returns its handle. Clients joining
// after Shutdown receive the shutdown event immediately.
func (h *Hub) RegisterClient(username string) *ClientHandle {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle := &ClientHandle{
		ID:       h.nextClientID,
		Username: username,
		EventsCh: make(chan HubEvent, 4),
	}
	h.nextClientID++
	h.clients[handle.ID] = handle

	if h.shuttingDown {
		handle.EventsCh <- HubEvent{Type: EventServerShutdown}
	}
	return handle
}

// UnregisterClient removes a client. Unknown IDs are ignored.
func (h *Hub) UnregisterClient(clientID int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, clientID)
}

// Players returns the number of connected clients.
func (h *Hub) Players() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to the given timeout. It returns the number of clients still connected.
func (h *Hub) Shutdown(timeout time.Duration) int {
	h.mu.Lock()
	h.shuttingDown = true
	for _, handle := range h.clients {
		select {
		case handle.EventsCh <- HubEvent{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if remaining := h.Players(); remaining == 0 {
			return 0
		}
		select {
		case <-deadline:
			return h.Players()
		case <-ticker.C:
		}
	}
}
