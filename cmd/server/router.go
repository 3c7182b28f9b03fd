package main

import (
	"sync"

	"temserver/internal/agent"
	"temserver/internal/registry"
	"temserver/internal/room"
)

// agentRouter is the single gamelogic.Hooks/simulation.Hooks implementation
// shared by every room. Since a room has at most one AI occupant (§3 Mode),
// it holds one DualProcessAgent per room and delegates every hook to it.
type agentRouter struct {
	mu     sync.Mutex
	agents map[string]*agent.DualProcessAgent
}

func newAgentRouter() *agentRouter {
	return &agentRouter{agents: make(map[string]*agent.DualProcessAgent)}
}

func (r *agentRouter) register(roomID string, a *agent.DualProcessAgent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[roomID] = a
}

func (r *agentRouter) remove(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agents, roomID)
}

func (r *agentRouter) get(roomID string) *agent.DualProcessAgent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.agents[roomID]
}

func (r *agentRouter) Phase1Start(roomID string) {
	if a := r.get(roomID); a != nil {
		a.Phase1Start(roomID)
	}
}

func (r *agentRouter) PMVerifyRequest(roomID string, dq room.QueuedDecision) {
	if a := r.get(roomID); a != nil {
		a.PMVerifyRequest(roomID, dq)
	}
}

func (r *agentRouter) QuizQuestionsDelivered(roomID string, qs []registry.QuizQuestion) {
	if a := r.get(roomID); a != nil {
		a.QuizQuestionsDelivered(roomID, qs)
	}
}

func (r *agentRouter) GaugeMonitoredByHuman(roomID, gaugeID string) {
	if a := r.get(roomID); a != nil {
		a.GaugeMonitoredByHuman(roomID, gaugeID)
	}
}

func (r *agentRouter) EventAlert(roomID string, ev registry.Event) {
	if a := r.get(roomID); a != nil {
		a.EventAlert(roomID, ev)
	}
}

func (r *agentRouter) ChecklistShown(roomID, qrhKey string) {
	if a := r.get(roomID); a != nil {
		a.ChecklistShown(roomID, qrhKey)
	}
}

func (r *agentRouter) ChatMessage(roomID string, msg room.ChatMessage) {
	if a := r.get(roomID); a != nil {
		a.ChatMessage(roomID, msg)
	}
}

// RoomClosed satisfies gamelogic.Hooks. Game Logic calls it once a room's
// last occupant leaves, so the room's agent (and the PF-identification /
// quiz goroutines it may still be running) isn't kept alive forever.
func (r *agentRouter) RoomClosed(roomID string) {
	r.remove(roomID)
}
