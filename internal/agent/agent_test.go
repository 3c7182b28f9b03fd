package agent

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"temserver/internal/llmengine"
	"temserver/internal/registry"
	"temserver/internal/room"
)

func TestParseApproval(t *testing.T) {
	Convey("Given free-text recommendation strings", t, func() {
		Convey("A rejecting keyword maps to false", func() {
			So(parseApproval("I think we should reject this decision"), ShouldBeFalse)
			So(parseApproval("No, that's incorrect"), ShouldBeFalse)
		})

		Convey("An approving keyword maps to true", func() {
			So(parseApproval("Approve, this is a reasonable mitigation"), ShouldBeTrue)
		})

		Convey("Text with no matching keyword defaults to approve", func() {
			So(parseApproval("the crew proceeded as briefed"), ShouldBeTrue)
		})
	})
}

func TestParseJSONResponse(t *testing.T) {
	Convey("Given raw model replies", t, func() {
		Convey("A bare JSON object parses directly", func() {
			out, ok := parseJSONResponse(`{"action":"approve"}`)
			So(ok, ShouldBeTrue)
			So(out["action"], ShouldEqual, "approve")
		})

		Convey("JSON wrapped in chatty prose is extracted", func() {
			out, ok := parseJSONResponse("Sure, here you go:\n```\n{\"action\":\"reject\"}\n```\nLet me know if needed.")
			So(ok, ShouldBeTrue)
			So(out["action"], ShouldEqual, "reject")
		})

		Convey("Non-JSON text fails to parse", func() {
			_, ok := parseJSONResponse("I'm not sure what to recommend here.")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestExecutePMVerify(t *testing.T) {
	Convey("Given an ActionExecutor", t, func() {
		e := &ActionExecutor{}

		Convey("A populated Action field is parsed directly", func() {
			strat := Strategy{Recommendation: Recommendation{Action: "reject"}}
			So(e.ExecutePMVerify(strat), ShouldBeFalse)
		})

		Convey("An empty Action field falls back to Reasoning", func() {
			strat := Strategy{Recommendation: Recommendation{Reasoning: "this looks like an active mitigation, approve"}}
			So(e.ExecutePMVerify(strat), ShouldBeTrue)
		})
	})
}

func TestExecutePFDecision(t *testing.T) {
	Convey("Given a threat with two options", t, func() {
		e := &ActionExecutor{}
		threat := registry.Threat{
			Keyword: "24015G25KT",
			Options: []registry.Option{
				{ID: "standard_procedure", IsCorrect: true},
				{ID: "ignore_wind", IsCorrect: false},
			},
		}

		Convey("A valid recommended option id is returned as-is", func() {
			strat := Strategy{Recommendation: Recommendation{Action: "ignore_wind"}}
			So(e.ExecutePFDecision(strat, threat), ShouldEqual, "ignore_wind")
		})

		Convey("An invalid recommendation degrades to the first option", func() {
			strat := Strategy{Recommendation: Recommendation{Action: "not_a_real_option"}}
			So(e.ExecutePFDecision(strat, threat), ShouldEqual, "standard_procedure")
		})

		Convey("A threat with no options degrades to empty string", func() {
			strat := Strategy{Recommendation: Recommendation{Action: "anything"}}
			So(e.ExecutePFDecision(strat, registry.Threat{}), ShouldEqual, "")
		})
	})
}

func testQuiz() registry.QuizQuestion {
	return registry.QuizQuestion{
		ID:       "q1",
		Question: "test question",
		Options: []registry.Option{
			{ID: "a", IsCorrect: false},
			{ID: "b", IsCorrect: true},
			{ID: "c", IsCorrect: false},
		},
	}
}

func TestAnswerQuiz(t *testing.T) {
	Convey("Given a quiz question with three options", t, func() {
		q := testQuiz()

		Convey("A valid option_id reply is returned", func() {
			e := &ActionExecutor{Fast: &llmengine.MockEngine{Reply: `{"option_id":"b"}`}}
			So(e.AnswerQuiz(context.Background(), q), ShouldEqual, "b")
		})

		Convey("An engine error degrades to the first option", func() {
			e := &ActionExecutor{Fast: &llmengine.MockEngine{Err: errBoom}}
			So(e.AnswerQuiz(context.Background(), q), ShouldEqual, "a")
		})

		Convey("A malformed reply degrades to the first option", func() {
			e := &ActionExecutor{Fast: &llmengine.MockEngine{Reply: "not json"}}
			So(e.AnswerQuiz(context.Background(), q), ShouldEqual, "a")
		})

		Convey("A reply naming an option id not on this question degrades to the first option", func() {
			e := &ActionExecutor{Fast: &llmengine.MockEngine{Reply: `{"option_id":"z"}`}}
			So(e.AnswerQuiz(context.Background(), q), ShouldEqual, "a")
		})
	})
}

func TestShouldReplyToChat(t *testing.T) {
	Convey("Given a chat-gating ActionExecutor", t, func() {
		Convey("An engine error defaults to no reply", func() {
			e := &ActionExecutor{Fast: &llmengine.MockEngine{Err: errBoom}}
			dec := e.ShouldReplyToChat(context.Background(), "Pat", "are you seeing this?", nil)
			So(dec.ShouldReply, ShouldBeFalse)
			So(dec.ReplyMessage, ShouldBeEmpty)
		})

		Convey("Malformed JSON defaults to no reply", func() {
			e := &ActionExecutor{Fast: &llmengine.MockEngine{Reply: "uh, sure"}}
			dec := e.ShouldReplyToChat(context.Background(), "Pat", "are you seeing this?", nil)
			So(dec.ShouldReply, ShouldBeFalse)
		})

		Convey("A well-formed reply is decoded in full", func() {
			e := &ActionExecutor{Fast: &llmengine.MockEngine{
				Reply: `{"should_reply": true, "reply_message": "Confirmed.", "reasoning": "directly asked"}`,
			}}
			dec := e.ShouldReplyToChat(context.Background(), "Pat", "are you seeing this?", []string{"Pat: hello"})
			So(dec.ShouldReply, ShouldBeTrue)
			So(dec.ReplyMessage, ShouldEqual, "Confirmed.")
		})
	})
}

func TestStrategyGeneratorFallback(t *testing.T) {
	Convey("Given a threat with two options", t, func() {
		threat := registry.Threat{
			Keyword: "24015G25KT",
			Options: []registry.Option{
				{ID: "standard_procedure", IsCorrect: true},
				{ID: "ignore_wind", IsCorrect: false},
			},
		}

		Convey("An engine error falls back to the first option id", func() {
			s := &StrategyGenerator{Slow: &llmengine.MockEngine{Err: errBoom}}
			strat := s.StrategizePFDecision(context.Background(), Observation{}, threat)
			So(strat.Recommendation.Action, ShouldEqual, "standard_procedure")
			So(strat.Recommendation.Confidence, ShouldEqual, "low")
		})

		Convey("A malformed reply falls back to the first option id", func() {
			s := &StrategyGenerator{Slow: &llmengine.MockEngine{Reply: "not json at all"}}
			strat := s.StrategizePFDecision(context.Background(), Observation{}, threat)
			So(strat.Recommendation.Action, ShouldEqual, "standard_procedure")
		})

		Convey("A well-formed reply is decoded into the Strategy", func() {
			s := &StrategyGenerator{Slow: &llmengine.MockEngine{
				Reply: `{"thinking":"t","recommendation":{"action":"ignore_wind","confidence":"high","reasoning":"r"},"explanation":"e"}`,
			}}
			strat := s.StrategizePFDecision(context.Background(), Observation{}, threat)
			So(strat.Recommendation.Action, ShouldEqual, "ignore_wind")
			So(strat.Recommendation.Confidence, ShouldEqual, "high")
			So(strat.Explanation, ShouldEqual, "e")
		})
	})

	Convey("Given a pending PM verification", t, func() {
		Convey("An engine error falls back to approve", func() {
			s := &StrategyGenerator{Slow: &llmengine.MockEngine{Err: errBoom}}
			dq := room.QueuedDecision{Keyword: "24015G25KT", OptionID: "standard_procedure", PFCorrect: true}
			strat := s.StrategizePMVerify(context.Background(), Observation{}, dq, registry.SOP{Title: "Crosswind"})
			So(strat.Recommendation.Action, ShouldEqual, "approve")
		})
	})
}

var errBoom = &boomError{}

type boomError struct{}

func (e *boomError) Error() string { return "boom" }
