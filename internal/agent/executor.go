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
)

// ActionExecutor translates a Strategy into a concrete Action/Game-Logic
// call. PM-verify translation is grounded directly on the original's
// ActionExecutor.execute_pm_verify; PF-decision, QRH, and gauge-monitoring
// executors were never added in the original (left as a TODO there) and are
// authored fresh here, following the same pattern.
type ActionExecutor struct {
	Fast    llmengine.Engine
	Metrics *metrics.Metrics
}

// ExecutePMVerify turns a PM-verify Strategy into the approve/reject
// boolean Game Logic needs.
func (e *ActionExecutor) ExecutePMVerify(strat Strategy) bool {
	if strat.Recommendation.Action == "" {
		return parseApproval(strat.Recommendation.Reasoning)
	}
	return parseApproval(strat.Recommendation.Action)
}

// ExecutePFDecision turns a PF-decision Strategy into one of the threat's
// real option ids, degrading to the first option if the model's answer
// isn't one of them (§4.4: "if the model returns an invalid id, the
// executor degrades to the first option").
func (e *ActionExecutor) ExecutePFDecision(strat Strategy, threat registry.Threat) string {
	if _, ok := threat.Option(strat.Recommendation.Action); ok {
		return strat.Recommendation.Action
	}
	if len(threat.Options) > 0 {
		return threat.Options[0].ID
	}
	return ""
}

// ExecuteGaugeExplanation returns the educator explanation text to send as
// a chat message from the AI's role (SUPPLEMENTED FEATURES item 3).
func (e *ActionExecutor) ExecuteGaugeExplanation(strat Strategy) string {
	return strat.Explanation
}

// ExecuteQRHExplanation returns the justification text to send as a chat
// message.
func (e *ActionExecutor) ExecuteQRHExplanation(strat Strategy) string {
	return strat.Explanation
}

const quizSystemPrompt = "You answer a single multiple-choice aviation question. " +
	`Reply with JSON only: {"option_id":"..."}`

// AnswerQuiz asks the Fast engine to pick one of a quiz question's option
// ids, falling back to the first option on any error or malformed reply.
func (e *ActionExecutor) AnswerQuiz(ctx context.Context, q registry.QuizQuestion) string {
	randomDelay(fastDecisionMin, fastDecisionMax)

	var opts strings.Builder
	for _, o := range q.Options {
		fmt.Fprintf(&opts, "%s: %s\n", o.ID, o.Text)
	}
	prompt := fmt.Sprintf("Question: %s\nOptions:\n%s", q.Question, opts.String())

	start := time.Now()
	reply, err := e.Fast.Chat(ctx, quizSystemPrompt, prompt)
	if err != nil {
		log.Error().Err(err).Msg("action executor quiz call failed, using fallback")
		e.Metrics.RecordAIFallback("fast", "quiz")
		return firstOptionID(q.Options)
	}
	e.Metrics.RecordAICall("fast", "quiz", time.Since(start))
	parsed, ok := parseJSONResponse(reply)
	if !ok {
		e.Metrics.RecordAIFallback("fast", "quiz")
		return firstOptionID(q.Options)
	}
	id := asString(parsed["option_id"])
	for _, o := range q.Options {
		if o.ID == id {
			return id
		}
	}
	e.Metrics.RecordAIFallback("fast", "quiz")
	return firstOptionID(q.Options)
}

func firstOptionID(opts []registry.Option) string {
	if len(opts) == 0 {
		return ""
	}
	return opts[0].ID
}

const chatGatingSystemPrompt = "You decide whether an AI crew member should reply to a chat message. " +
	"Reply only if the message is directed at you, asks a direct question, or requires acknowledgement. " +
	"Do not reply to messages that are purely between the other crew members, rhetorical, or already answered. " +
	`Reply with JSON only: {"should_reply": true|false, "reply_message": "...", "reasoning": "..."}`

// ChatGateDecision is the Fast engine's should-I-reply verdict, grounded on
// the original's on_chat_message bilingual should-reply prompt (translated
// to English, restructured as Go).
type ChatGateDecision struct {
	ShouldReply  bool
	ReplyMessage string
	Reasoning    string
}

// ShouldReplyToChat asks the Fast engine whether the AI's role should reply
// to a just-received chat message, defaulting to no reply on any error or
// malformed JSON (§4.4 fallback policy: "skip chat reply").
func (e *ActionExecutor) ShouldReplyToChat(ctx context.Context, senderName, body string, history []string) ChatGateDecision {
	randomDelay(fastDecisionMin, fastDecisionMax)

	var hist strings.Builder
	for _, h := range history {
		hist.WriteString(h)
		hist.WriteString("\n")
	}
	prompt := fmt.Sprintf("Recent chat:\n%s\nNew message from %s: %q", hist.String(), senderName, body)

	start := time.Now()
	reply, err := e.Fast.Chat(ctx, chatGatingSystemPrompt, prompt)
	if err != nil {
		log.Error().Err(err).Msg("action executor chat-gate call failed, skipping reply")
		e.Metrics.RecordAIFallback("fast", "chat_gate")
		return ChatGateDecision{}
	}
	e.Metrics.RecordAICall("fast", "chat_gate", time.Since(start))
	parsed, ok := parseJSONResponse(reply)
	if !ok {
		e.Metrics.RecordAIFallback("fast", "chat_gate")
		return ChatGateDecision{}
	}
	shouldReply, _ := parsed["should_reply"].(bool)
	return ChatGateDecision{
		ShouldReply:  shouldReply,
		ReplyMessage: asString(parsed["reply_message"]),
		Reasoning:    asString(parsed["reasoning"]),
	}
}
