package llmengine

import (
	"context"
	"net/http"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"
)

const defaultMaxTokens int64 = 1024

// AnthropicEngine is the Slow LLM engine, backed by Anthropic's API.
type AnthropicEngine struct {
	sdk       anthropic.Client
	model     string
	maxTokens int64
}

// AnthropicConfig configures the Slow engine.
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewAnthropicEngine builds a Slow engine client, grounded on
// manifold's anthropic.New construction (option.WithAPIKey/WithHTTPClient).
func NewAnthropicEngine(cfg AnthropicConfig, httpClient *http.Client) *AnthropicEngine {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithHTTPClient(httpClient),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(base, "/")))
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = string(anthropic.ModelClaude3_7SonnetLatest)
	}

	return &AnthropicEngine{
		sdk:       anthropic.NewClient(opts...),
		model:     model,
		maxTokens: defaultMaxTokens,
	}
}

// Chat sends one system+user exchange and returns the model's text reply.
func (c *AnthropicEngine) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	start := time.Now()
	resp, err := c.sdk.Messages.New(ctx, params)
	dur := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("model", c.model).Dur("duration", dur).Msg("strategy_generator_chat_error")
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	log.Debug().Str("model", c.model).Dur("duration", dur).Msg("strategy_generator_chat_ok")
	return sb.String(), nil
}
