package gamelogic

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"temserver/internal/room"
	"temserver/internal/sessionlog"
)

// dynamicBriefingDelay is how far into Phase 1 the scripted dispatch-update
// sys_msg is injected (SUPPLEMENTED FEATURES item 2), a few seconds into
// crew discussion per the original's inject_dynamic_event.
const dynamicBriefingDelay = 15 * time.Second

// JoinResult reports what happened after a join, letting the caller decide
// whether to launch an AI Agent for the room and whether Phase 1 started.
type JoinResult struct {
	StartedPhase1 bool
	NeedsAI       bool
	AIRole        room.Role
}

// Join seats a user in a room, creating the room on first reference (§3
// Lifecycle, §9 "confine Room Store mutation to join/disconnect"). It
// enforces the 2-user cap and role-uniqueness invariant (§8 invariant 1).
func (g *GameLogic) Join(roomID, handle, username string, role room.Role, mode room.Mode) (*JoinResult, error) {
	r := g.store.GetOrCreate(roomID)

	if r.Log == nil && g.logDir != "" {
		lg, err := sessionlog.Open(g.logDir, roomID, r.SessionStart)
		if err != nil {
			log.Error().Err(err).Str("room", roomID).Msg("failed to open session log, continuing unlogged")
		} else {
			r.Log = lg
		}
	}

	if _, seated := r.Users[handle]; !seated {
		if len(r.Users) >= 2 {
			return nil, room.ErrRoomFull
		}
		if r.RoleTaken(role) {
			return nil, fmt.Errorf("role %s already taken in room %s", role, roomID)
		}
	}

	if r.Mode == "" {
		r.Mode = mode
	}
	r.Users[handle] = room.User{Handle: handle, DisplayName: username, Role: role, IsAI: false}

	result := &JoinResult{}
	if r.Mode == room.ModeSinglePlayerWithAI && r.AIRole == "" {
		peer := room.RolePM
		if role == room.RolePM {
			peer = room.RolePF
		}
		r.AIRole = peer
		r.AIName = "AI Copilot"
		result.NeedsAI = true
		result.AIRole = peer
	}

	g.log(r, room.Actor{Name: username, Role: role}, "join", logDetails("mode", string(mode)))

	g.bcast.ToRoom(roomID, "user_count_update", map[string]any{
		"count":     r.SeatedCount(),
		"usernames": r.Usernames(),
	})

	if r.SeatedCount() >= r.ExpectedOccupancy() && r.Phase == room.PhaseWaiting {
		r.Phase = room.PhasePhase1
		result.StartedPhase1 = true
		g.bcast.ToRoom(roomID, "start_phase_1", map[string]any{})
		go g.scheduleDynamicBriefing(roomID)
		if g.hooks != nil {
			g.hooks.Phase1Start(roomID)
		}
	}

	return result, nil
}

// scheduleDynamicBriefing broadcasts the scripted mid-briefing dispatch
// update a fixed delay into Phase 1 (SUPPLEMENTED FEATURES item 2), unless
// the room has moved on or disappeared by then.
func (g *GameLogic) scheduleDynamicBriefing(roomID string) {
	time.Sleep(dynamicBriefingDelay)
	r, ok := g.store.Get(roomID)
	if !ok || r.Phase != room.PhasePhase1 {
		return
	}
	ev := g.reg.DynamicBriefingEvent()
	g.bcast.ToRoom(roomID, "sys_msg", map[string]any{"kind": ev.Kind, "msg": ev.Body})
}

// Leave removes a user from a room, freeing their seat (invariant 7, §8)
// and destroying the room once it is empty of both humans and AI (§3
// Lifecycle: "destroyed when the last user disconnects; its log remains on
// disk").
func (g *GameLogic) Leave(roomID, handle string) {
	r, ok := g.store.Get(roomID)
	if !ok {
		return
	}
	u, ok := r.Users[handle]
	if !ok {
		return
	}
	delete(r.Users, handle)

	g.log(r, room.Actor{Name: u.DisplayName, Role: u.Role}, "disconnect", nil)

	g.bcast.ToRoom(roomID, "user_left", map[string]any{
		"username":         u.DisplayName,
		"role":             string(u.Role),
		"remaining_count":  r.SeatedCount(),
	})

	if len(r.Users) == 0 {
		if r.Log != nil {
			r.Log.Close()
		}
		g.store.Remove(roomID)
		if g.hooks != nil {
			g.hooks.RoomClosed(roomID)
		}
	}
}
