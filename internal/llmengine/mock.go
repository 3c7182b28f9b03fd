package llmengine

import "context"

// MockEngine is a deterministic Engine used in tests; it returns a fixed
// reply or a fixed error, never touching the network.
type MockEngine struct {
	Reply string
	Err   error
}

// Chat returns the configured reply or error.
func (m *MockEngine) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}
