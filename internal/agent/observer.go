package agent

import (
	"temserver/internal/registry"
	"temserver/internal/room"
)

// Observer projects Room state into a minimal Observation, grounded on the
// original's StateObserver.observe dispatch-by-phase shape.
type Observer struct {
	Role room.Role
}

// Observe builds the phase-appropriate Observation for the current room
// state.
func (o *Observer) Observe(r *room.Room) Observation {
	switch r.Phase {
	case room.PhasePhase1:
		return o.observePhase1(r)
	case room.PhasePhase2:
		return o.observePhase2(r)
	case room.PhasePhase3:
		return o.observePhase3(r)
	default:
		return Observation{Phase: string(r.Phase), Role: string(o.Role), Context: map[string]any{}}
	}
}

func (o *Observer) observePhase1(r *room.Room) Observation {
	var pending *room.QueuedDecision
	if r.P1.PendingDecision != nil {
		cp := *r.P1.PendingDecision
		pending = &cp
	}

	history := r.ChatHistory
	if len(history) > 10 {
		history = history[len(history)-10:]
	}

	return Observation{
		Phase: string(room.PhasePhase1),
		Role:  string(o.Role),
		Context: map[string]any{
			"handled_threats":  r.P1.HandledThreats,
			"pending_decision": pending,
			"decision_queue":   r.P1.DecisionQueue,
			"chat_history":     history,
		},
	}
}

func (o *Observer) observePhase2(r *room.Room) Observation {
	return Observation{
		Phase: string(room.PhasePhase2),
		Role:  string(o.Role),
		Context: map[string]any{
			"sim_active":       true,
			"gauge_states":     r.P2.GaugeStates,
			"monitored_gauges": r.P2.MonitoredGauges,
			"event_detections": r.P2.EventDetections,
		},
	}
}

func (o *Observer) observePhase3(r *room.Room) Observation {
	return Observation{
		Phase: string(room.PhasePhase3),
		Role:  string(o.Role),
		Context: map[string]any{
			"used_qrh":             r.P3.UsedQRH,
			"current_qrh":          r.P3.CurrentQRH,
			"checked_items":        r.P3.CheckedItems,
			"active_checklist_len": r.P3.ActiveChecklistLen,
		},
	}
}

// gaugeKnowledge gives the Strategy Generator teaching context for a
// monitored gauge, grounded on the original's detect_abnormal_gauges
// baseline table.
func gaugeKnowledge(cfg registry.GaugeConfig) string {
	return cfg.Name + " normal range " + cfg.NormalRange + " " + cfg.Unit
}
