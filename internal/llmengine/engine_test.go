package llmengine

import (
	"context"
	"testing"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMockEngine(t *testing.T) {
	Convey("Given a MockEngine configured with a fixed reply", t, func() {
		m := &MockEngine{Reply: "a canned reply"}
		reply, err := m.Chat(context.Background(), "system", "user")
		So(err, ShouldBeNil)
		So(reply, ShouldEqual, "a canned reply")
	})

	Convey("Given a MockEngine configured with a fixed error", t, func() {
		m := &MockEngine{Err: context.DeadlineExceeded}
		_, err := m.Chat(context.Background(), "system", "user")
		So(err, ShouldEqual, context.DeadlineExceeded)
	})
}

func TestNewAnthropicEngineDefaults(t *testing.T) {
	Convey("Given no model override", t, func() {
		e := NewAnthropicEngine(AnthropicConfig{APIKey: "test-key"}, nil)
		Convey("It falls back to the default Claude model and token budget", func() {
			So(e.model, ShouldEqual, string(anthropic.ModelClaude3_7SonnetLatest))
			So(e.maxTokens, ShouldEqual, defaultMaxTokens)
		})
	})

	Convey("Given an explicit model override", t, func() {
		e := NewAnthropicEngine(AnthropicConfig{APIKey: "test-key", Model: "claude-custom"}, nil)
		Convey("The override is used as-is", func() {
			So(e.model, ShouldEqual, "claude-custom")
		})
	})
}

func TestNewOpenAIEngineDefaults(t *testing.T) {
	Convey("Given no model override", t, func() {
		e := NewOpenAIEngine(OpenAIConfig{APIKey: "test-key"}, nil)
		Convey("It falls back to gpt-4o-mini", func() {
			So(e.model, ShouldEqual, "gpt-4o-mini")
		})
	})

	Convey("Given an explicit model override", t, func() {
		e := NewOpenAIEngine(OpenAIConfig{APIKey: "test-key", Model: "gpt-4.1"}, nil)
		Convey("The override is used as-is", func() {
			So(e.model, ShouldEqual, "gpt-4.1")
		})
	})
}
