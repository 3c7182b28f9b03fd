package llmengine

import (
	"context"
	"net/http"
	"strings"
	"time"

	sdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/rs/zerolog/log"
)

// OpenAIEngine is the Fast LLM engine, backed by OpenAI's chat completions
// API, grounded on manifold's openai.Client construction and Chat call
// shape (sdk.NewClient + ChatCompletionNewParams + Chat.Completions.New).
type OpenAIEngine struct {
	sdk   sdk.Client
	model string
}

// OpenAIConfig configures the Fast engine.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewOpenAIEngine builds a Fast engine client.
func NewOpenAIEngine(cfg OpenAIConfig, httpClient *http.Client) *OpenAIEngine {
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
		model = "gpt-4o-mini"
	}

	return &OpenAIEngine{sdk: sdk.NewClient(opts...), model: model}
}

// Chat sends one system+user exchange and returns the model's text reply.
func (c *OpenAIEngine) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := sdk.ChatCompletionNewParams{
		Model: sdk.ChatModel(c.model),
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(systemPrompt),
			sdk.UserMessage(userPrompt),
		},
	}

	start := time.Now()
	comp, err := c.sdk.Chat.Completions.New(ctx, params)
	dur := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("model", c.model).Dur("duration", dur).Msg("action_executor_chat_error")
		return "", err
	}
	if len(comp.Choices) == 0 {
		return "", nil
	}
	log.Debug().Str("model", c.model).Dur("duration", dur).Msg("action_executor_chat_ok")
	return comp.Choices[0].Message.Content, nil
}
