package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNilMetricsIsSafe(t *testing.T) {
	Convey("Given a nil *Metrics", t, func() {
		var m *Metrics

		Convey("Every recording method is a no-op rather than a panic", func() {
			So(func() {
				m.SetRoomsActive(3)
				m.IncRoomsCreated()
				m.IncSimTick("roomA")
				m.ObserveScenarioDuration("routine_flight", time.Second)
				m.RecordAICall("anthropic", "pf_decision", 200*time.Millisecond)
				m.RecordAIFallback("openai", "quiz")
				m.SetTTSQueueDepth(2)
				m.RecordTTSSynthesis(true, 50*time.Millisecond)
			}, ShouldNotPanic)
		})

		Convey("Handler returns a 503-responding handler instead of nil", func() {
			h := m.Handler()
			So(h, ShouldNotBeNil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestMetricsHandlerServesRegisteredCollectors(t *testing.T) {
	Convey("Given a real Metrics instance with some activity recorded", t, func() {
		m := New()
		m.IncRoomsCreated()
		m.SetRoomsActive(1)
		m.RecordAICall("anthropic", "pf_decision", 150*time.Millisecond)
		m.RecordAIFallback("openai", "quiz")
		m.RecordTTSSynthesis(true, 20*time.Millisecond)

		Convey("Handler serves 200 with the recorded series present", func() {
			rec := httptest.NewRecorder()
			m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			body := rec.Body.String()
			So(body, ShouldContainSubstring, "tem_room_created_total")
			So(body, ShouldContainSubstring, "tem_ai_calls_total")
			So(body, ShouldContainSubstring, "tem_tts_synthesis_total")
		})
	})
}
