// Package simulation implements the per-room Simulation Loop (§4.2): the
// independent producer of gauge updates and scripted precursor/alert events
// during Phase 2. The original's simulation-loop source was filtered out of
// the retrieval pack, so the tick algorithm is grounded directly on
// spec.md's explicit step-by-step description; the ticker itself reuses the
// teacher's channerics.NewTicker the same way its server publish loop does.
package simulation

import (
	"context"
	"math/rand"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
	"github.com/rs/zerolog/log"

	"temserver/internal/metrics"
	"temserver/internal/registry"
	"temserver/internal/room"
)

const tickPeriod = 100 * time.Millisecond

// passScoreThreshold is the Open Question decision recorded in
// SPEC_FULL.md: mission_complete reports "Passed" when score exceeds this.
const passScoreThreshold = 40

// Broadcaster is how the loop reaches clients, identical in shape to
// gamelogic.Broadcaster so both can share a gateway implementation.
type Broadcaster interface {
	ToRoom(roomID, msgType string, payload any)
}

// Hooks lets the AI Agent subscribe to the one Simulation-Loop-fired
// trigger, event_alert (§4.4).
type Hooks interface {
	EventAlert(roomID string, ev registry.Event)
}

// Loop runs one room's Phase-2 simulation for the room's lifetime.
type Loop struct {
	roomID string
	store  *room.Store
	reg    *registry.Registry
	bcast  Broadcaster
	hooks  Hooks
	m      *metrics.Metrics

	// scenarioDuration is refreshed every tick so eventPass can compute the
	// same progress fraction flight_update reports, without threading the
	// whole scenario through its signature.
	scenarioDuration float64
}

// New builds a Loop for one room. The scenario is chosen uniformly at
// random from the registry on Run, per §4.2 "On Phase-2 entry, a scenario
// is chosen uniformly at random from the registry." m may be nil to disable
// metrics.
func New(roomID string, store *room.Store, reg *registry.Registry, bcast Broadcaster, hooks Hooks, m *metrics.Metrics) *Loop {
	return &Loop{roomID: roomID, store: store, reg: reg, bcast: bcast, hooks: hooks, m: m}
}

// Run selects a scenario, initializes Phase-2 room state, and ticks at
// 100ms until the scenario's duration elapses or the room disappears from
// the Store (last-disconnect cancellation, §5). Run writes the room's
// Phase-2 scenario, start time, gauge values, event detections and end
// notifications, and adds detection and reaction credit to r.Score
// directly rather than through Game Logic.
func (l *Loop) Run(ctx context.Context) {
	r, ok := l.store.Get(l.roomID)
	if !ok {
		return
	}

	scenarios := l.reg.Scenarios()
	if len(scenarios) == 0 {
		return
	}
	scenario := scenarios[rand.Intn(len(scenarios))]
	log.Info().Str("room", l.roomID).Str("scenario", scenario.Name).Msg("phase 2 simulation starting")

	r.P2.CurrentScenario = scenario
	r.P2.SimStart = time.Now()
	for id, cfg := range l.reg.Gauges() {
		if cfg.IsFuel() {
			r.P2.GaugeStates["fuel_left"] = cfg.BaselineLeft
			r.P2.GaugeStates["fuel_right"] = cfg.BaselineRight
		} else {
			r.P2.GaugeStates[id] = cfg.Baseline
		}
	}

	l.bcast.ToRoom(l.roomID, "start_phase_2", map[string]any{"duration": scenario.DurationS})

	ticker := channerics.NewTicker(ctx.Done(), tickPeriod)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker:
			r, ok := l.store.Get(l.roomID)
			if !ok {
				return // room torn down: cancel at next suspension point, §5.
			}
			if l.tick(r, scenario) {
				return // scenario duration elapsed, mission complete broadcast.
			}
		}
	}
}

// tick runs one 100ms step of §4.2's five-part algorithm, returning true
// once the scenario has ended.
func (l *Loop) tick(r *room.Room, scenario registry.Phase2Scenario) (done bool) {
	t := time.Since(r.P2.SimStart).Seconds()
	l.scenarioDuration = scenario.DurationS
	l.m.IncSimTick(l.roomID)

	l.refreshBaselines(r, t)
	for _, ev := range scenario.Events {
		l.eventPass(r, ev, t)
	}

	progress := 100 * t / scenario.DurationS
	l.bcast.ToRoom(l.roomID, "flight_update", map[string]any{
		"gauges":   r.P2.GaugeStates,
		"progress": progress,
	})

	if t >= scenario.DurationS {
		result := "Debrief Required"
		if r.Score > passScoreThreshold {
			result = "Passed"
		}
		l.bcast.ToRoom(l.roomID, "mission_complete", map[string]any{
			"score":   r.Score,
			"result":  result,
			"summary": summaryFor(r),
		})
		if r.Log != nil {
			r.Log.Append("SYSTEM", "", "mission_complete", map[string]any{"result": result}, string(r.Phase), r.Score)
		}
		l.m.ObserveScenarioDuration(scenario.Name, time.Since(r.P2.SimStart))
		return true
	}
	return false
}

func summaryFor(r *room.Room) string {
	return "Session complete: " + string(r.Phase)
}

// refreshBaselines is step 1: each gauge jitters ±1% around its baseline;
// fuel decrements both tanks by 0.05*t gallons absent an active event.
func (l *Loop) refreshBaselines(r *room.Room, t float64) {
	for id, cfg := range l.reg.Gauges() {
		if cfg.IsFuel() {
			continue
		}
		jitter := 1 + (rand.Float64()*0.02 - 0.01)
		r.P2.GaugeStates[id] = cfg.Baseline * jitter
	}
	decrement := 0.05 * t
	fuel := l.reg.Gauges()["fuel"]
	r.P2.GaugeStates["fuel_left"] = fuel.BaselineLeft - decrement
	r.P2.GaugeStates["fuel_right"] = fuel.BaselineRight - decrement
}

// failureValue returns the held value for a gauge once its event has
// reached the alert band, per §4.2 step 2's worked examples.
func failureValue(gaugeID string) (float64, bool) {
	switch gaugeID {
	case "oil_pressure":
		return 10, true
	case "rpm":
		return 2100, true
	case "vacuum":
		return 3.0, true
	case "ammeter":
		return -12, true
	default:
		return 0, false
	}
}

// patternValue computes the precursor-phase override for one event's
// gauge, per §4.2 step 2's four named pattern generators.
func patternValue(ev registry.Event, cfg registry.GaugeConfig, tIntoPrecursor float64) float64 {
	switch ev.Precursor.Pattern {
	case "asymmetric":
		// Fuel: left at normal consumption, right at 3x normal consumption.
		t := ev.PrecursorStartS + tIntoPrecursor
		return cfg.BaselineRight - 3*0.05*t
	case "fluctuate_down":
		trend := cfg.Baseline - (cfg.Baseline-30)*(tIntoPrecursor/15)
		noise := rand.Float64()*10 - 5
		v := trend + noise
		if v < 30 {
			v = 30
		}
		return v
	case "gradual_drop":
		floor := cfg.Baseline - 100
		v := cfg.Baseline - (cfg.Baseline-floor)*(tIntoPrecursor/15)
		if v < floor {
			v = floor
		}
		return v
	case "discharge":
		noise := rand.Float64()*2 - 1
		v := -tIntoPrecursor + noise
		if v < -20 {
			v = -20
		}
		return v
	default:
		return cfg.Baseline
	}
}

// eventPass runs step 2 and step 3 of §4.2 for one scripted event.
func (l *Loop) eventPass(r *room.Room, ev registry.Event, t float64) {
	if t < ev.PrecursorStartS || t >= ev.EventEndS {
		if t >= ev.EventEndS && !r.P2.EventEndNotified[ev.ID] {
			r.P2.EventEndNotified[ev.ID] = true
			l.bcast.ToRoom(l.roomID, "sys_msg", map[string]any{
				"msg": ev.Name + " stabilized.",
			})
		}
		return
	}

	cfg, _ := l.reg.Gauge(ev.Precursor.Gauge)

	if t < ev.AlertStartS {
		// Precursor phase.
		v := patternValue(ev, cfg, t-ev.PrecursorStartS)
		if ev.Precursor.Gauge == "fuel" {
			r.P2.GaugeStates["fuel_right"] = v
		} else {
			r.P2.GaugeStates[ev.Precursor.Gauge] = v
		}

		if r.P2.MonitoredGauges[ev.Precursor.Gauge] {
			if _, detected := r.P2.EventDetections[ev.ID]; !detected {
				r.P2.EventDetections[ev.ID] = room.EventDetection{
					DetectedAt: room.DetectedAtPrecursor,
					Timestamp:  time.Now(),
				}
				r.Score += ev.DetectionScore
				l.bcast.ToRoom(l.roomID, "precursor_detected", map[string]any{
					"event_name": ev.Name,
					"gauge":      ev.Precursor.Gauge,
					"score":      ev.DetectionScore,
					"msg":        "Precursor detected: " + ev.Name,
				})
			}
		}
		return
	}

	// Alert phase.
	if fv, ok := failureValue(ev.Precursor.Gauge); ok {
		r.P2.GaugeStates[ev.Precursor.Gauge] = fv
	}

	firstAlertTick := t-tickPeriod.Seconds() < ev.AlertStartS
	if firstAlertTick {
		l.bcast.ToRoom(l.roomID, "event_trigger", map[string]any{
			"type":     ev.Alert.Severity,
			"msg":      ev.Alert.Message,
			"progress": 100 * t / l.scenarioDuration,
		})
		if l.hooks != nil {
			l.hooks.EventAlert(l.roomID, ev)
		}
	}

	if _, detected := r.P2.EventDetections[ev.ID]; !detected {
		r.P2.EventDetections[ev.ID] = room.EventDetection{
			DetectedAt: room.DetectedAtAlert,
			Timestamp:  time.Now(),
		}
		r.Score += ev.ReactionScore
	}
}
