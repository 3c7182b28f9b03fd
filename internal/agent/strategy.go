package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"temserver/internal/llmengine"
	"temserver/internal/metrics"
	"temserver/internal/registry"
	"temserver/internal/room"
)

// StrategyGenerator is the Slow LLM stage (System 2): given an Observation
// and a task, it produces a Strategy. Grounded on the original's
// StrategyGenerator and its four task-specific prompts.
type StrategyGenerator struct {
	Slow    llmengine.Engine
	Metrics *metrics.Metrics
}

const strategySystemPrompt = "You are the deliberative reasoning stage of a flight-training crew member. " +
	"Reply with a single JSON object only: " +
	`{"thinking":"...", "assessment":{}, "recommendation":{"action":"...","confidence":"low|medium|high","reasoning":"..."}, "next_focus":"...", "explanation":"..."}`

func fallbackStrategy(action string) Strategy {
	return Strategy{
		Recommendation: Recommendation{Action: action, Confidence: "low", Reasoning: "fallback: LLM unavailable or malformed reply"},
		Explanation:    "",
	}
}

func (s *StrategyGenerator) ask(ctx context.Context, task, systemPrompt, userPrompt, fallbackAction string) Strategy {
	randomDelay(slowThinkingMin, slowThinkingMax)

	start := time.Now()
	reply, err := s.Slow.Chat(ctx, systemPrompt, userPrompt)
	if err != nil {
		log.Error().Err(err).Msg("strategy generator call failed, using fallback")
		s.Metrics.RecordAIFallback("slow", task)
		return fallbackStrategy(fallbackAction)
	}
	s.Metrics.RecordAICall("slow", task, time.Since(start))

	parsed, ok := parseJSONResponse(reply)
	if !ok {
		log.Warn().Str("reply", reply).Msg("strategy generator reply was not valid JSON, using fallback")
		s.Metrics.RecordAIFallback("slow", task)
		return fallbackStrategy(fallbackAction)
	}

	strat := Strategy{
		Thinking:    asString(parsed["thinking"]),
		NextFocus:   asString(parsed["next_focus"]),
		Explanation: asString(parsed["explanation"]),
	}
	if a, ok := parsed["assessment"].(map[string]any); ok {
		strat.Assessment = a
	}
	if rec, ok := parsed["recommendation"].(map[string]any); ok {
		strat.Recommendation = Recommendation{
			Action:     asString(rec["action"]),
			Confidence: asString(rec["confidence"]),
			Reasoning:  asString(rec["reasoning"]),
		}
	}
	return strat
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// StrategizePFDecision asks which option id the AI, playing PF, should
// submit for a threat, demanding the recommendation be one of the real
// option ids (§4.4 PF-decision strategy).
func (s *StrategyGenerator) StrategizePFDecision(ctx context.Context, obs Observation, threat registry.Threat) Strategy {
	ids := make([]string, len(threat.Options))
	for i, o := range threat.Options {
		ids[i] = o.ID
	}
	prompt := fmt.Sprintf(
		"Threat: %s\nDescription: %s\nValid option ids: %s\n"+
			"Pick exactly one option id as your recommendation.action.",
		threat.Keyword, threat.Description, strings.Join(ids, ", "),
	)
	fallback := ""
	if len(ids) > 0 {
		fallback = ids[0]
	}
	return s.ask(ctx, "pf_decision", strategySystemPrompt, prompt, fallback)
}

// StrategizePMVerify asks whether to approve a pending PF decision, framed
// as "is this an active mitigation?" rather than "should we fly?" — the
// bias correction §4.4 explicitly calls out.
func (s *StrategyGenerator) StrategizePMVerify(ctx context.Context, obs Observation, dq room.QueuedDecision, sop registry.SOP) Strategy {
	prompt := fmt.Sprintf(
		"The pilot flying chose option %q for threat %q.\n"+
			"Standard procedure: %s\n"+
			"Question: is this response an ACTIVE MITIGATION of the threat, or does it IGNORE the threat? "+
			"Do not ask whether the flight should proceed — only judge the mitigation itself.\n"+
			"recommendation.action must be \"approve\" or \"reject\".",
		dq.OptionID, dq.Keyword, sop.Title,
	)
	return s.ask(ctx, "pm_verify", strategySystemPrompt, prompt, "approve")
}

// StrategizeGaugeAnalysis produces a short educator explanation for a
// gauge the human just tagged (§4.4 Gauge-analysis teaching, ≤80 words).
func (s *StrategyGenerator) StrategizeGaugeAnalysis(ctx context.Context, cfg registry.GaugeConfig, currentValue float64) Strategy {
	prompt := fmt.Sprintf(
		"Explain in 80 words or fewer, in a crew-briefing tone, what %s means and why the current reading "+
			"(%.1f %s, normal range %s) is or isn't a concern. Put the explanation in the \"explanation\" field.",
		cfg.Name, currentValue, cfg.Unit, cfg.NormalRange,
	)
	return s.ask(ctx, "gauge_analysis", strategySystemPrompt, prompt, "explain")
}

// StrategizeQRHExplanation justifies a checklist selection in ≤60 words
// (§4.4 QRH-explanation teaching).
func (s *StrategyGenerator) StrategizeQRHExplanation(ctx context.Context, checklist registry.Checklist) Strategy {
	prompt := fmt.Sprintf(
		"In 60 words or fewer, justify why the %q checklist is the right emergency procedure here. "+
			"Put the justification in the \"explanation\" field.",
		checklist.Title,
	)
	return s.ask(ctx, "qrh_explanation", strategySystemPrompt, prompt, "explain")
}
