// Package agent implements the dual-process AI Agent (§4.4): one agent per
// AI-occupied room role, running Observer (no LLM) -> Strategy Generator
// (Slow LLM) -> Action Executor (Fast LLM) in response to the hooks Game
// Logic and the Simulation Loop fire. Method-for-method this mirrors the
// original prototype's DualProcessAgent and its ai_core/{models,observer,
// strategies,executors,utils}.py helpers; prompt text is translated, not
// copied, into English.
package agent

// Observation is the Observer's phase-specific projection of Room state
// (§3). Context is a bounded map because each phase needs a different
// shape (handled threats vs. gauge states vs. checklist progress).
type Observation struct {
	Phase   string
	Role    string
	Context map[string]any
}

// Recommendation is the decision core of a Strategy.
type Recommendation struct {
	Action     string
	Confidence string
	Reasoning  string
}

// Strategy is the Slow LLM's structured reply (§3, §4.4).
type Strategy struct {
	Thinking       string
	Assessment     map[string]any
	Recommendation Recommendation
	NextFocus      string
	Explanation    string
}

// Action is the Executor's translation of a Strategy into a concrete
// Game-Logic call (§3).
type Action struct {
	Type             string
	Params           map[string]any
	ExecuteImmediate bool
}
