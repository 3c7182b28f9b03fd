package agent

import (
	"context"

	"github.com/rs/zerolog/log"

	"temserver/internal/gamelogic"
	"temserver/internal/registry"
	"temserver/internal/room"
)

// DualProcessAgent is one AI occupant of one room: Observer feeds a
// StrategyGenerator (Slow LLM), whose Strategy an ActionExecutor (Fast LLM
// or deterministic rule) turns into a real GameLogic call. Its per-trigger
// methods cover every gamelogic.Hooks/simulation.Hooks callback except
// room-lifecycle teardown, which cmd/server's agentRouter (the actual Hooks
// implementation handed to both packages) handles itself so neither domain
// package needs to import this one.
type DualProcessAgent struct {
	RoomID string
	Role   room.Role
	Name   string

	store *room.Store
	reg   *registry.Registry
	gl    *gamelogic.GameLogic

	observer Observer
	strategy StrategyGenerator
	executor ActionExecutor
}

// New builds the AI occupant for one room/role, wiring the Slow and Fast
// engines it was configured with.
func New(roomID string, aiRole room.Role, aiName string, store *room.Store, reg *registry.Registry, gl *gamelogic.GameLogic, strat StrategyGenerator, exec ActionExecutor) *DualProcessAgent {
	return &DualProcessAgent{
		RoomID:   roomID,
		Role:     aiRole,
		Name:     aiName,
		store:    store,
		reg:      reg,
		gl:       gl,
		observer: Observer{Role: aiRole},
		strategy: strat,
		executor: exec,
	}
}

func (a *DualProcessAgent) actor() room.Actor {
	return room.Actor{Name: a.Name, Role: a.Role, IsAI: true}
}

// Phase1Start drives the identification/decision loop when the AI occupies
// PF, and primes the emergency quiz when it occupies PM (§4.4; the original
// never separated "quiz delivered" from "phase 1 started" as a distinct
// trigger, so both proceed directly off this one hook).
func (a *DualProcessAgent) Phase1Start(roomID string) {
	if a.Role == room.RolePF {
		go a.runPFIdentificationLoop(roomID)
	}
	if a.Role == room.RolePM {
		go a.runQuiz(roomID)
	}
}

func (a *DualProcessAgent) runPFIdentificationLoop(roomID string) {
	ctx := context.Background()
	for _, threat := range a.reg.Threats() {
		r, ok := a.store.Get(roomID)
		if !ok || r.Phase != room.PhasePhase1 {
			return
		}
		if _, handled := r.P1.HandledThreats[threat.Keyword]; handled {
			continue
		}

		if err := a.gl.IdentifyThreat(roomID, a.actor(), threat.Keyword); err != nil {
			log.Warn().Err(err).Str("keyword", threat.Keyword).Msg("agent identify_threat failed")
			continue
		}

		obs := a.observer.Observe(r)
		strat := a.strategy.StrategizePFDecision(ctx, obs, threat)
		optionID := a.executor.ExecutePFDecision(strat, threat)
		if optionID == "" {
			continue
		}
		if err := a.gl.SubmitDecision(roomID, a.actor(), threat.Keyword, optionID); err != nil {
			log.Warn().Err(err).Str("keyword", threat.Keyword).Msg("agent submit_decision failed")
		}

		// One threat in flight at a time: wait for the human PM (or the
		// peer PM hook, handled separately) to clear it before moving on.
		for i := 0; i < 600; i++ {
			randomDelay(fastDecisionMin, fastDecisionMax)
			r, ok := a.store.Get(roomID)
			if !ok || r.Phase != room.PhasePhase1 {
				return
			}
			if _, handled := r.P1.HandledThreats[threat.Keyword]; handled {
				break
			}
		}
	}
}

func (a *DualProcessAgent) runQuiz(roomID string) {
	ctx := context.Background()
	for _, q := range a.reg.Quiz() {
		randomDelay(slowThinkingMin, slowThinkingMax)
		optionID := a.executor.AnswerQuiz(ctx, q)
		if err := a.gl.SubmitQuizAnswer(roomID, a.actor(), q.ID, optionID); err != nil {
			log.Warn().Err(err).Str("question_id", q.ID).Msg("agent submit_quiz_answer failed")
		}
	}
}

// PMVerifyRequest runs the Slow-LLM verify strategy when the AI occupies PM.
func (a *DualProcessAgent) PMVerifyRequest(roomID string, dq room.QueuedDecision) {
	if a.Role != room.RolePM {
		return
	}
	go func() {
		ctx := context.Background()
		r, ok := a.store.Get(roomID)
		if !ok {
			return
		}
		threat, _ := a.reg.Threat(dq.Keyword)
		obs := a.observer.Observe(r)
		strat := a.strategy.StrategizePMVerify(ctx, obs, dq, threat.SOP)
		approved := a.executor.ExecutePMVerify(strat)
		if err := a.gl.VerifyDecision(roomID, a.actor(), approved); err != nil {
			log.Warn().Err(err).Str("keyword", dq.Keyword).Msg("agent verify_decision failed")
		}
	}()
}

// QuizQuestionsDelivered satisfies gamelogic.Hooks; quiz answering is
// self-paced off Phase1Start instead (see runQuiz), so this is a no-op.
func (a *DualProcessAgent) QuizQuestionsDelivered(roomID string, qs []registry.QuizQuestion) {}

// GaugeMonitoredByHuman has the AI peer add a short teaching explanation in
// chat when the human tags a gauge (SUPPLEMENTED FEATURES item 3).
func (a *DualProcessAgent) GaugeMonitoredByHuman(roomID, gaugeID string) {
	go func() {
		ctx := context.Background()
		r, ok := a.store.Get(roomID)
		if !ok {
			return
		}
		cfg, ok := a.reg.Gauge(gaugeID)
		if !ok {
			return
		}
		value := r.P2.GaugeStates[gaugeID]
		strat := a.strategy.StrategizeGaugeAnalysis(ctx, cfg, value)
		explanation := a.executor.ExecuteGaugeExplanation(strat)
		if explanation == "" {
			return
		}
		if err := a.gl.SendChat(roomID, a.actor(), explanation, false); err != nil {
			log.Warn().Err(err).Str("gauge_id", gaugeID).Msg("agent gauge explanation chat failed")
		}
	}()
}

// EventAlert reacts to a Simulation-Loop alert by choosing and activating
// the matching QRH checklist (§4.4, §9's scripted-event design).
func (a *DualProcessAgent) EventAlert(roomID string, ev registry.Event) {
	go func() {
		ctx := context.Background()
		key, ok := registry.QRHKeyForAlert(ev.Alert.Message)
		if !ok {
			return
		}
		checklist, ok := a.reg.Checklist(key)
		if !ok {
			return
		}
		randomDelay(slowThinkingMin, slowThinkingMax)
		strat := a.strategy.StrategizeQRHExplanation(ctx, checklist)
		explanation := a.executor.ExecuteQRHExplanation(strat)
		if explanation != "" {
			_ = a.gl.SendChat(roomID, a.actor(), explanation, false)
		}
		if err := a.gl.SelectQRH(roomID, a.actor(), key); err != nil {
			log.Warn().Err(err).Str("checklist", key).Msg("agent select_qrh failed")
		}
	}()
}

// ChecklistShown has the AI work through the active checklist's items once
// any actor (human or AI) selects one.
func (a *DualProcessAgent) ChecklistShown(roomID, qrhKey string) {
	go func() {
		for i := 0; ; i++ {
			randomDelay(fastDecisionMin, fastDecisionMax)
			r, ok := a.store.Get(roomID)
			if !ok || r.P3.CurrentQRH != qrhKey {
				return
			}
			if i >= r.P3.ActiveChecklistLen {
				return
			}
			if r.P3.CheckedItems[i] {
				continue
			}
			if err := a.gl.CheckItem(roomID, a.actor(), i); err != nil {
				log.Warn().Err(err).Int("index", i).Msg("agent check_item failed")
				return
			}
		}
	}()
}

// ChatMessage asks the Fast engine whether the AI's role should reply to a
// just-received human chat message (§4.4 chat-reply gating).
func (a *DualProcessAgent) ChatMessage(roomID string, msg room.ChatMessage) {
	if msg.IsAI {
		return
	}
	go func() {
		ctx := context.Background()
		r, ok := a.store.Get(roomID)
		if !ok {
			return
		}
		history := make([]string, 0, len(r.ChatHistory))
		for _, m := range r.ChatHistory {
			history = append(history, m.SenderName+": "+m.Body)
		}
		decision := a.executor.ShouldReplyToChat(ctx, msg.SenderName, msg.Body, history)
		if !decision.ShouldReply || decision.ReplyMessage == "" {
			return
		}
		if err := a.gl.SendChat(roomID, a.actor(), decision.ReplyMessage, false); err != nil {
			log.Warn().Err(err).Msg("agent chat reply failed")
		}
	}()
}
