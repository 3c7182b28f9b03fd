// Package gamelogic is the serialization boundary (§4.1): the only mutator
// of Room state. Every exported method validates its inputs, updates state,
// appends a session-log entry, and broadcasts result messages — humans and
// AI Actors are indistinguishable callers, per §9's "Polymorphism over
// Actor" note. Method-for-method this mirrors the original prototype's
// GameLogic class (identify_threat, submit_decision, verify_decision, ...).
package gamelogic

import (
	"fmt"
	"time"

	"temserver/internal/registry"
	"temserver/internal/room"
)

// Broadcaster is how Game Logic reaches clients. The Gateway implements
// this; Game Logic itself owns no transport.
type Broadcaster interface {
	ToRoom(roomID, msgType string, payload any)
	ToUser(roomID, handle, msgType string, payload any)
}

// Hooks lets an AI Agent subscribe to the triggers §4.4 names. Game Logic
// calls Phase1Start, PMVerifyRequest (only when an AI holds the PM seat),
// GaugeMonitoredByHuman, ChecklistShown, ChatMessage and RoomClosed;
// EventAlert is called by the Simulation Loop, and nothing in this
// repository calls QuizQuestionsDelivered. The Agent decides what, if
// anything, to do.
type Hooks interface {
	Phase1Start(roomID string)
	PMVerifyRequest(roomID string, dq room.QueuedDecision)
	QuizQuestionsDelivered(roomID string, qs []registry.QuizQuestion)
	GaugeMonitoredByHuman(roomID, gaugeID string)
	EventAlert(roomID string, ev registry.Event)
	ChecklistShown(roomID, qrhKey string)
	ChatMessage(roomID string, msg room.ChatMessage)
	RoomClosed(roomID string)
}

// GameLogic is the single entry point for both humans and AI.
type GameLogic struct {
	store  *room.Store
	reg    *registry.Registry
	bcast  Broadcaster
	hooks  Hooks
	logDir string
}

// New builds a GameLogic bound to a room store, scenario registry,
// broadcaster, and AI-hook sink. logDir is where each room's append-only
// session log is created on first join (§3 log_sink).
func New(store *room.Store, reg *registry.Registry, bcast Broadcaster, hooks Hooks, logDir string) *GameLogic {
	return &GameLogic{store: store, reg: reg, bcast: bcast, hooks: hooks, logDir: logDir}
}

// Briefings returns the static pre-flight reference bulletins clients can
// request during Phase 1 (SUPPLEMENTED FEATURES item 1, get_briefing).
func (g *GameLogic) Briefings() []registry.Briefing {
	return g.reg.Briefings()
}

func logDetails(kv ...any) map[string]any {
	d := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		d[key] = kv[i+1]
	}
	return d
}

func (g *GameLogic) log(r *room.Room, actor room.Actor, action string, details map[string]any) {
	if r.Log == nil {
		return
	}
	if err := r.Log.Append(actor.Name, string(actor.Role), action, details, string(r.Phase), r.Score); err != nil {
		// The session log is unwritable. The failure is printed to
		// stdout and the room keeps running; it is not torn down and
		// the caller is not told.
		fmt.Printf("sessionlog write failed for room %s: %v\n", r.ID, err)
	}
}

// ---- identify_threat ----

// ErrWrongRole is returned when an Actor's role doesn't match an
// operation's required role.
var ErrWrongRole = fmt.Errorf("wrong role for this action")

// ErrUnknownThreat is returned for an unrecognized threat keyword.
var ErrUnknownThreat = fmt.Errorf("unknown threat keyword")

// ErrAlreadyResolved is returned when a threat keyword has already been
// fully handled.
var ErrAlreadyResolved = fmt.Errorf("threat already resolved")

// ErrUnknownOption is returned for an option id not on the named threat.
var ErrUnknownOption = fmt.Errorf("unknown option for threat")

// ErrNoPendingDecision is returned when verify_decision is called with
// nothing pending.
var ErrNoPendingDecision = fmt.Errorf("no pending decision")

// ErrUnknownQuestion is returned for an unrecognized quiz question id.
var ErrUnknownQuestion = fmt.Errorf("unknown quiz question")

// ErrDuplicateChecklist is returned when a checklist already in used_qrh
// is selected again.
var ErrDuplicateChecklist = fmt.Errorf("checklist already used")

// ErrIndexOutOfRange is returned for an out-of-range checklist item index.
var ErrIndexOutOfRange = fmt.Errorf("checklist item index out of range")

// ErrUnknownChecklist is returned for an unrecognized QRH checklist key.
var ErrUnknownChecklist = fmt.Errorf("unknown checklist key")

// IdentifyThreat marks a keyword as under-decision and prompts the PF.
func (g *GameLogic) IdentifyThreat(roomID string, actor room.Actor, keyword string) error {
	r, ok := g.store.Get(roomID)
	if !ok {
		return fmt.Errorf("room %s not found", roomID)
	}
	if actor.Role != room.RolePF {
		return ErrWrongRole
	}
	threat, ok := g.reg.Threat(keyword)
	if !ok {
		return ErrUnknownThreat
	}
	if _, resolved := r.P1.HandledThreats[keyword]; resolved {
		return ErrAlreadyResolved
	}
	if r.P1.IdentifiedKeys[keyword] {
		return ErrAlreadyResolved
	}
	r.P1.IdentifiedKeys[keyword] = true

	g.log(r, actor, "identify_threat", logDetails("keyword", keyword))

	if !actor.IsAI && actor.Handle != "" {
		g.bcast.ToUser(roomID, actor.Handle, "show_pf_decision_modal", map[string]any{
			"keyword":     keyword,
			"description": threat.Description,
			"options":     threat.Options,
		})
	}
	return nil
}

// SubmitDecision enqueues a PF decision, promoting it immediately if no
// decision is currently pending PM verification (§4.1, §4.3).
func (g *GameLogic) SubmitDecision(roomID string, actor room.Actor, keyword, optionID string) error {
	r, ok := g.store.Get(roomID)
	if !ok {
		return fmt.Errorf("room %s not found", roomID)
	}
	if actor.Role != room.RolePF {
		return ErrWrongRole
	}
	threat, ok := g.reg.Threat(keyword)
	if !ok {
		return ErrUnknownThreat
	}
	opt, ok := threat.Option(optionID)
	if !ok {
		return ErrUnknownOption
	}

	dq := room.QueuedDecision{
		Keyword:   keyword,
		OptionID:  optionID,
		PFCorrect: opt.IsCorrect,
		PFActor:   actor,
	}
	r.P1.DecisionQueue = append(r.P1.DecisionQueue, dq)

	g.log(r, actor, "submit_decision", logDetails("keyword", keyword, "option_id", optionID))

	if !actor.IsAI && actor.Handle != "" {
		g.bcast.ToUser(roomID, actor.Handle, "waiting_pm_verify", map[string]any{
			"keyword": keyword,
			"msg":     "Decision submitted, awaiting PM verification.",
		})
	}

	if r.P1.PendingDecision == nil {
		g.promoteNextDecision(roomID, r)
	}
	return nil
}

// promoteNextDecision pops the queue head into pending_decision and
// notifies the PM, atomically with respect to the caller (§4.3: "promoted
// atomically before any further client message is processed" — guaranteed
// here because this whole call runs inside the room's single-dispatch
// context, never re-entered concurrently).
func (g *GameLogic) promoteNextDecision(roomID string, r *room.Room) {
	if len(r.P1.DecisionQueue) == 0 {
		r.P1.PendingDecision = nil
		return
	}
	next := r.P1.DecisionQueue[0]
	r.P1.DecisionQueue = r.P1.DecisionQueue[1:]
	r.P1.PendingDecision = &next

	threat, _ := g.reg.Threat(next.Keyword)

	var pmHandle string
	var pmIsAI bool
	for _, u := range r.Users {
		if u.Role == room.RolePM {
			pmHandle = u.Handle
			pmIsAI = false
			break
		}
	}
	if pmHandle == "" && r.AIRole == room.RolePM {
		pmIsAI = true
	}

	if !pmIsAI && pmHandle != "" {
		g.bcast.ToUser(roomID, pmHandle, "show_pm_verify_panel", map[string]any{
			"keyword":     next.Keyword,
			"pf_username": next.PFActor.Name,
			"pf_decision": next.OptionID,
			"sop_data":    threat.SOP,
		})
	} else if pmIsAI && g.hooks != nil {
		g.hooks.PMVerifyRequest(roomID, next)
	}
}

// resultTag and color of a 2x2 PF-correctness x PM-approval outcome (§3,
// §8's S1-S3 worked examples).
func outcomeFor(pfCorrect, approved bool) (tag, color string) {
	switch {
	case pfCorrect && approved:
		return "success", "green"
	case pfCorrect && !approved:
		return "pm_error", "orange"
	case !pfCorrect && approved:
		return "critical_error", "red"
	default:
		return "pm_catch", "yellow"
	}
}

func scoreDeltaFor(matrix registry.ScoreMatrix, pfCorrect, approved bool) int {
	switch {
	case pfCorrect && approved:
		return matrix.PFCorrectPMApprove
	case pfCorrect && !approved:
		return matrix.PFCorrectPMReject
	case !pfCorrect && approved:
		return matrix.PFWrongPMApprove
	default:
		return matrix.PFWrongPMReject
	}
}

// VerifyDecision applies the scoring matrix to the pending decision and
// promotes the next queued one (§4.1, §4.3).
func (g *GameLogic) VerifyDecision(roomID string, actor room.Actor, approved bool) error {
	r, ok := g.store.Get(roomID)
	if !ok {
		return fmt.Errorf("room %s not found", roomID)
	}
	if actor.Role != room.RolePM {
		return ErrWrongRole
	}
	if r.P1.PendingDecision == nil {
		return ErrNoPendingDecision
	}

	dq := *r.P1.PendingDecision
	threat, _ := g.reg.Threat(dq.Keyword)
	tag, color := outcomeFor(dq.PFCorrect, approved)
	delta := scoreDeltaFor(threat.ScoreMatrix, dq.PFCorrect, approved)

	r.Score += delta
	r.P1.HandledThreats[dq.Keyword] = room.HandledThreat{
		PFChoice:   dq.OptionID,
		PFCorrect:  dq.PFCorrect,
		PMApproved: approved,
		ResultTag:  tag,
		ScoreDelta: delta,
	}
	r.P1.PendingDecision = nil

	g.log(r, actor, "verify_decision", logDetails(
		"keyword", dq.Keyword, "approved", approved, "result", tag, "score_delta", delta,
	))

	g.bcast.ToRoom(roomID, "threat_decision_result", map[string]any{
		"keyword":      dq.Keyword,
		"result":       tag,
		"msg":          fmt.Sprintf("%s: %s", dq.Keyword, tag),
		"color":        color,
		"score_change": delta,
	})
	g.bcast.ToRoom(roomID, "update_score", map[string]any{"score": r.Score})

	g.promoteNextDecision(roomID, r)
	return nil
}

// SubmitQuizAnswer scores an emergency-quiz answer (+10 correct / -5
// incorrect) and appends to quiz_results.
func (g *GameLogic) SubmitQuizAnswer(roomID string, actor room.Actor, questionID, optionID string) error {
	r, ok := g.store.Get(roomID)
	if !ok {
		return fmt.Errorf("room %s not found", roomID)
	}
	if actor.Role != room.RolePM {
		return ErrWrongRole
	}

	var found *registry.QuizQuestion
	for _, q := range g.reg.Quiz() {
		if q.ID == questionID {
			qq := q
			found = &qq
			break
		}
	}
	if found == nil {
		return ErrUnknownQuestion
	}

	correctID, _ := found.CorrectOptionID()
	correct := optionID == correctID
	delta := -5
	if correct {
		delta = 10
	}
	r.Score += delta
	r.P1.QuizResults = append(r.P1.QuizResults, room.QuizResult{
		QuestionID: questionID,
		Chosen:     optionID,
		Correct:    correct,
		ScoreDelta: delta,
	})

	g.log(r, actor, "submit_quiz_answer", logDetails(
		"question_id", questionID, "chosen", optionID, "correct", correct, "score_delta", delta,
	))

	g.bcast.ToRoom(roomID, "quiz_answer_result", map[string]any{
		"question_id":  questionID,
		"correct":      correct,
		"explanation":  found.Explanation,
		"score_change": delta,
	})
	g.bcast.ToRoom(roomID, "update_score", map[string]any{"score": r.Score})
	return nil
}

// RequestPhase2 marks the caller ready and transitions the room once every
// seated user has confirmed. The caller (cmd/server wiring) is responsible
// for actually launching the Simulation Loop on transition; RequestPhase2
// only flips the phase and reports whether it did.
func (g *GameLogic) RequestPhase2(roomID string, actor room.Actor) (transitioned bool, err error) {
	r, ok := g.store.Get(roomID)
	if !ok {
		return false, fmt.Errorf("room %s not found", roomID)
	}
	if actor.Handle != "" {
		r.P2.ReadyForNext[actor.Handle] = true
	} else {
		r.P2.ReadyForNext[string(actor.Role)] = true
	}

	g.log(r, actor, "request_phase2", nil)

	if len(r.P2.ReadyForNext) >= r.ExpectedOccupancy() && r.Phase == room.PhasePhase1 {
		r.Phase = room.PhasePhase2
		return true, nil
	}
	return false, nil
}

// MonitorGauge tags a gauge as monitored (idempotent, invariant 6 §8) and
// returns its current value/config for AI-teaching use.
func (g *GameLogic) MonitorGauge(roomID string, actor room.Actor, gaugeID string) (map[string]any, error) {
	r, ok := g.store.Get(roomID)
	if !ok {
		return nil, fmt.Errorf("room %s not found", roomID)
	}
	cfg, _ := g.reg.Gauge(gaugeID)
	alreadyMonitored := r.P2.MonitoredGauges[gaugeID]
	r.P2.MonitoredGauges[gaugeID] = true

	g.log(r, actor, "monitor_gauge", logDetails("gauge_id", gaugeID))

	result := map[string]any{
		"gauge_id":       gaugeID,
		"gauge_name":     cfg.Name,
		"current_value":  r.P2.GaugeStates[gaugeID],
		"gauge_config":   cfg,
	}
	g.bcast.ToRoom(roomID, "gauge_monitored", map[string]any{
		"gauge_id": gaugeID,
		"msg":      fmt.Sprintf("%s monitored", cfg.Name),
	})

	if !alreadyMonitored && !actor.IsAI && g.hooks != nil {
		g.hooks.GaugeMonitoredByHuman(roomID, gaugeID)
	}
	return result, nil
}

// SelectQRH activates an emergency checklist, rejecting duplicates
// (invariant/boundary behavior 11 §8).
func (g *GameLogic) SelectQRH(roomID string, actor room.Actor, checklistKey string) error {
	r, ok := g.store.Get(roomID)
	if !ok {
		return fmt.Errorf("room %s not found", roomID)
	}
	if r.P3.UsedQRH[checklistKey] {
		return ErrDuplicateChecklist
	}
	checklist, ok := g.reg.Checklist(checklistKey)
	if !ok {
		return ErrUnknownChecklist
	}

	r.Phase = room.PhasePhase3
	r.P3.UsedQRH[checklistKey] = true
	r.P3.CurrentQRH = checklistKey
	r.P3.CheckedItems = make(map[int]bool)
	r.P3.ActiveChecklistLen = len(checklist.Items)

	var scenario registry.Phase2Scenario
	for _, name := range []string{r.P2.CurrentScenario.Name} {
		if s, ok := g.reg.Scenario(name); ok {
			scenario = s
		}
	}
	isCorrect := false
	for _, k := range scenario.AcceptableQRH {
		if k == checklistKey {
			isCorrect = true
			break
		}
	}
	delta := -20
	if isCorrect {
		delta = 20
	}
	r.Score += delta

	g.log(r, actor, "select_qrh", logDetails("checklist", checklistKey, "correct", isCorrect, "score_delta", delta))

	g.bcast.ToRoom(roomID, "show_checklist", map[string]any{
		"title": checklist.Title,
		"items": checklist.Items,
		"msg":   fmt.Sprintf("Checklist selected: %s", checklist.Title),
	})
	g.bcast.ToRoom(roomID, "update_score", map[string]any{"score": r.Score})

	if g.hooks != nil {
		g.hooks.ChecklistShown(roomID, checklistKey)
	}
	return nil
}

// CheckItem marks a checklist item complete, broadcasting completion when
// every item has been checked (does not end the session, §4.1).
func (g *GameLogic) CheckItem(roomID string, actor room.Actor, index int) error {
	r, ok := g.store.Get(roomID)
	if !ok {
		return fmt.Errorf("room %s not found", roomID)
	}
	if index < 0 || index >= r.P3.ActiveChecklistLen {
		return ErrIndexOutOfRange
	}
	r.P3.CheckedItems[index] = true

	g.log(r, actor, "check_item", logDetails("index", index))

	g.bcast.ToRoom(roomID, "item_checked", map[string]any{
		"index": index,
		"role":  string(actor.Role),
	})

	if len(r.P3.CheckedItems) == r.P3.ActiveChecklistLen {
		sysActor := room.Actor{Name: "SYSTEM", Role: actor.Role}
		g.log(r, sysActor, "checklist_complete", logDetails("checklist", r.P3.CurrentQRH))
		g.bcast.ToRoom(roomID, "checklist_complete", map[string]any{
			"msg":      "Checklist complete.",
			"qrh_key":  r.P3.CurrentQRH,
		})
	}
	return nil
}

// SendChat appends a chat message and broadcasts it, hooking the AI peer
// if the sender is human and an AI occupies the opposite seat (§4.1).
func (g *GameLogic) SendChat(roomID string, actor room.Actor, body string, ttsRequested bool) error {
	r, ok := g.store.Get(roomID)
	if !ok {
		return fmt.Errorf("room %s not found", roomID)
	}
	msg := room.ChatMessage{
		SenderName:   actor.Name,
		SenderRole:   actor.Role,
		Body:         body,
		TimestampISO: time.Now().Format(time.RFC3339Nano),
		IsAI:         actor.IsAI,
		TTSRequested: ttsRequested,
	}
	r.AppendChat(msg)

	g.log(r, actor, "send_chat", logDetails("body", body, "tts_requested", ttsRequested))

	g.bcast.ToRoom(roomID, "chat_message", map[string]any{
		"username":   actor.Name,
		"role":       string(actor.Role),
		"message":    body,
		"timestamp":  msg.TimestampISO,
		"enable_tts": ttsRequested,
	})

	if !actor.IsAI && r.PeerIsAI(actor.Role) && g.hooks != nil {
		g.hooks.ChatMessage(roomID, msg)
	}
	return nil
}
