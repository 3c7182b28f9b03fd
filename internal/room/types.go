// Package room holds the per-room data model (§3): the Room itself, its
// phase-1/2/3 sub-state, and the small value types that state is built
// from. The Gateway looks rooms up by id and calls into Game Logic. Game
// Logic performs every mutation outside Phase 2's tick; the Simulation Loop
// writes the Phase-2 state (scenario, start time, gauge values, event
// detections and end notifications) and adds detection and reaction credit
// to the room's score directly.
package room

import (
	"time"

	"temserver/internal/registry"
	"temserver/internal/sessionlog"
)

// Role is one of the two cockpit seats.
type Role string

const (
	RolePF Role = "PF"
	RolePM Role = "PM"
)

// Mode describes whether the room's second seat is human or AI-occupied.
type Mode string

const (
	ModeDualPlayer          Mode = "dual_player"
	ModeSinglePlayerWithAI  Mode = "single_player_with_ai"
)

// Phase is the room's current stage.
type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhasePhase1  Phase = "phase1"
	PhasePhase2  Phase = "phase2"
	PhasePhase3  Phase = "phase3"
	PhaseEnded   Phase = "ended"
)

// Actor represents whoever is calling into Game Logic, human or AI. Humans
// carry a non-empty Handle (their gateway connection key); AI actors do not,
// per §9's "Polymorphism over Actor" note.
type Actor struct {
	Name   string
	Role   Role
	IsAI   bool
	Handle string
}

// User is one seated room occupant.
type User struct {
	Handle      string
	DisplayName string
	Role        Role
	IsAI        bool
}

// ChatMessage is one room chat entry.
type ChatMessage struct {
	SenderName   string
	SenderRole   Role
	Body         string
	TimestampISO string
	IsAI         bool
	TTSRequested bool
}

// HandledThreat records the final outcome of a Phase-1 threat decision.
type HandledThreat struct {
	PFChoice   string
	PFCorrect  bool
	PMApproved bool
	ResultTag  string // success | pm_error | critical_error | pm_catch
	ScoreDelta int
}

// QueuedDecision is one PF submission awaiting PM verification.
type QueuedDecision struct {
	Keyword   string
	OptionID  string
	PFCorrect bool
	PFActor   Actor
}

// QuizResult records one answered emergency-quiz question.
type QuizResult struct {
	QuestionID string
	Chosen     string
	Correct    bool
	ScoreDelta int
}

// DetectionPoint is one of the two moments a Phase-2 event can first be
// caught.
type DetectionPoint string

const (
	DetectedAtPrecursor DetectionPoint = "precursor"
	DetectedAtAlert     DetectionPoint = "alert"
)

// EventDetection is the first-detection record for one Phase-2 event.
// Invariant 3 (§8): written exactly once per event, never overwritten.
type EventDetection struct {
	DetectedAt DetectionPoint
	Timestamp  time.Time
}

// Phase1State holds the pre-flight threat-identification sub-state. The
// scenario's threats, quiz, and SOP data are read directly from the
// Scenario Registry by keyword rather than copied into the room.
type Phase1State struct {
	HandledThreats  map[string]HandledThreat
	PendingDecision *QueuedDecision
	DecisionQueue   []QueuedDecision
	QuizResults     []QuizResult
	IdentifiedKeys  map[string]bool
}

// Phase2State holds the in-flight instrument-monitoring sub-state.
type Phase2State struct {
	CurrentScenario  registry.Phase2Scenario
	SimStart         time.Time
	GaugeStates      map[string]float64
	MonitoredGauges  map[string]bool
	EventDetections  map[string]EventDetection
	EventEndNotified map[string]bool
	ReadyForNext     map[string]bool
}

// Phase3State holds the emergency-checklist sub-state.
type Phase3State struct {
	UsedQRH            map[string]bool
	CurrentQRH         string
	CheckedItems       map[int]bool
	ActiveChecklistLen int
}

const chatHistoryCap = 100

// Room is the unit of state for one training session.
type Room struct {
	ID           string
	Users        map[string]User // keyed by client handle; AI occupants are not stored here
	Mode         Mode
	Phase        Phase
	Score        int
	SessionStart time.Time
	ChatHistory  []ChatMessage

	P1 Phase1State
	P2 Phase2State
	P3 Phase3State

	// AIRole, if non-empty, names the role an AI agent occupies.
	AIRole Role
	AIName string

	// Log is the room's append-only session log handle (§3 log_sink).
	Log *sessionlog.Logger
}

// Elapsed returns time since the room's session started, for log records.
func (r *Room) Elapsed() float64 {
	return time.Since(r.SessionStart).Seconds()
}

// New creates an empty room in the waiting phase.
func New(id string) *Room {
	return &Room{
		ID:           id,
		Users:        make(map[string]User),
		Phase:        PhaseWaiting,
		SessionStart: time.Now(),
		P1: Phase1State{
			HandledThreats: make(map[string]HandledThreat),
			IdentifiedKeys: make(map[string]bool),
		},
		P2: Phase2State{
			GaugeStates:      make(map[string]float64),
			MonitoredGauges:  make(map[string]bool),
			EventDetections:  make(map[string]EventDetection),
			EventEndNotified: make(map[string]bool),
			ReadyForNext:     make(map[string]bool),
		},
		P3: Phase3State{
			UsedQRH:      make(map[string]bool),
			CheckedItems: make(map[int]bool),
		},
	}
}

// SeatedCount returns the number of humans occupying the room plus one if an
// AI occupies the peer role, i.e. the "seated users" count Join compares
// against ExpectedOccupancy.
func (r *Room) SeatedCount() int {
	n := len(r.Users)
	if r.AIRole != "" {
		n++
	}
	return n
}

// ExpectedOccupancy returns how many seated users are required before the
// room transitions out of waiting / before request_phase2 can complete.
func (r *Room) ExpectedOccupancy() int {
	if r.Mode == ModeSinglePlayerWithAI {
		return 1
	}
	return 2
}

// RoleTaken reports whether a role is already occupied by a human or the AI.
func (r *Room) RoleTaken(role Role) bool {
	if r.AIRole == role {
		return true
	}
	for _, u := range r.Users {
		if u.Role == role {
			return true
		}
	}
	return false
}

// FindActorRole returns the Role of the user with the given handle, if seated.
func (r *Room) FindActorRole(handle string) (Role, bool) {
	u, ok := r.Users[handle]
	if !ok {
		return "", false
	}
	return u.Role, true
}

// PeerIsAI reports whether the role opposite to the given one is AI-occupied.
func (r *Room) PeerIsAI(role Role) bool {
	peer := RolePM
	if role == RolePM {
		peer = RolePF
	}
	return r.AIRole == peer
}

// AppendChat appends a chat message, evicting the oldest beyond the cap.
func (r *Room) AppendChat(msg ChatMessage) {
	r.ChatHistory = append(r.ChatHistory, msg)
	if len(r.ChatHistory) > chatHistoryCap {
		r.ChatHistory = r.ChatHistory[len(r.ChatHistory)-chatHistoryCap:]
	}
}

// Usernames returns the display names of seated human users, for
// user_count_update broadcasts.
func (r *Room) Usernames() []string {
	names := make([]string, 0, len(r.Users))
	for _, u := range r.Users {
		names = append(names, u.DisplayName)
	}
	return names
}
