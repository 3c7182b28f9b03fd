package gateway

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub tracks live Clients per room and implements the Broadcaster
// interfaces gamelogic and simulation depend on, so neither package needs
// to know anything about websockets.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[string]*Client // room -> handle -> client
}

// NewHub creates an empty client registry.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[string]*Client)}
}

func (h *Hub) add(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[roomID] == nil {
		h.clients[roomID] = make(map[string]*Client)
	}
	h.clients[roomID][c.handle] = c
}

func (h *Hub) remove(roomID, handle string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.clients[roomID]; ok {
		delete(m, handle)
		if len(m) == 0 {
			delete(h.clients, roomID)
		}
	}
}

// ToRoom broadcasts a message to every client currently in a room (§4.1,
// §4.2, §4.6). Messages from a single handler are sent in emission order
// because this call enqueues synchronously on each client's send channel.
func (h *Hub) ToRoom(roomID, msgType string, payload any) {
	h.mu.Lock()
	targets := make([]*Client, 0, len(h.clients[roomID]))
	for _, c := range h.clients[roomID] {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		c.enqueue(msgType, roomID, payload)
	}
}

// ToUser sends a message to one client by handle, for role-directed
// messages (decision modals, verify panels) that §9 says an AI actor never
// receives because it has no client-session-handle.
func (h *Hub) ToUser(roomID, handle string, msgType string, payload any) {
	h.mu.Lock()
	c, ok := h.clients[roomID][handle]
	h.mu.Unlock()
	if !ok {
		log.Warn().Str("room", roomID).Str("handle", handle).Msg("gateway: ToUser target not connected")
		return
	}
	c.enqueue(msgType, roomID, payload)
}

// RoomClientCount reports how many live websocket clients are in a room.
// The join-time capacity check counts the room's seated users instead.
func (h *Hub) RoomClientCount(roomID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[roomID])
}
