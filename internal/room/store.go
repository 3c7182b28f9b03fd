package room

import (
	"fmt"
	"sync"

	"temserver/internal/metrics"
)

// Store is the process-wide room-id → Room mapping (§3, §9). It is
// read-mostly; the only mutations are Create/Remove at join/leave, exactly
// the cross-room surface §5 calls out as needing a coarse mutex — all other
// Room mutation is confined to the owning room's single-dispatch context and
// never touches the Store itself.
type Store struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	metrics *metrics.Metrics
}

// NewStore creates an empty room store. m may be nil to disable metrics.
func NewStore(m *metrics.Metrics) *Store {
	return &Store{rooms: make(map[string]*Room), metrics: m}
}

// GetOrCreate returns the room for id, creating it in the waiting phase if
// this is the first reference (§3 Lifecycle: "a room is created when the
// first join for that id arrives"). Every creation, dual-player or
// single-player-with-AI alike, counts toward tem_room_created_total.
func (s *Store) GetOrCreate(id string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		r = New(id)
		s.rooms[id] = r
		s.metrics.IncRoomsCreated()
		s.metrics.SetRoomsActive(len(s.rooms))
	}
	return r
}

// Get returns the room for id, if it currently exists.
func (s *Store) Get(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Remove deletes a room from the store. Any Agent or Loop goroutine that
// still holds the id will find their next Get a miss and exit cleanly, per
// §9's cyclic-structure note.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	s.metrics.SetRoomsActive(len(s.rooms))
}

// Len returns the number of live rooms, for metrics.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// ErrRoomFull is returned by join when a room already has two occupants.
var ErrRoomFull = fmt.Errorf("room is full")
