// Package llmengine provides the two chat-completion backends the dual
// process AI Agent (§4.4) drives: a Slow engine (Strategy Generator,
// System 2) and a Fast engine (Action Executor, System 1). Both satisfy the
// same narrow Engine interface, grounded on
// intelligencedev-manifold/internal/llm/{anthropic,openai}/client.go's
// client construction and Chat call shape, trimmed to a single
// request/response exchange — no tool-calling, no streaming, since §9
// explicitly rules partial JSON out as unactionable here.
package llmengine

import "context"

// Engine answers one system+user prompt with the model's raw text reply.
// Callers are responsible for parsing any JSON the prompt asked for.
type Engine interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
