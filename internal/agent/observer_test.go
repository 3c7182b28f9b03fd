package agent

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"temserver/internal/room"
)

func TestObserve(t *testing.T) {
	Convey("Given an Observer for the PM role", t, func() {
		o := &Observer{Role: room.RolePM}

		Convey("In phase 1, the observation carries pending decision and chat history trimmed to 10", func() {
			r := room.New("r1")
			r.Phase = room.PhasePhase1
			r.P1.PendingDecision = &room.QueuedDecision{Keyword: "24015G25KT"}
			for i := 0; i < 15; i++ {
				r.AppendChat(room.ChatMessage{Body: "msg"})
			}

			obs := o.Observe(r)
			So(obs.Phase, ShouldEqual, string(room.PhasePhase1))
			history := obs.Context["chat_history"].([]room.ChatMessage)
			So(len(history), ShouldEqual, 10)
			pending := obs.Context["pending_decision"].(*room.QueuedDecision)
			So(pending.Keyword, ShouldEqual, "24015G25KT")
		})

		Convey("In phase 2, the observation carries gauge and detection state", func() {
			r := room.New("r1")
			r.Phase = room.PhasePhase2
			r.P2.GaugeStates["oil_pressure"] = 80
			obs := o.Observe(r)
			gauges := obs.Context["gauge_states"].(map[string]float64)
			So(gauges["oil_pressure"], ShouldEqual, 80)
		})

		Convey("In phase 3, the observation carries checklist progress", func() {
			r := room.New("r1")
			r.Phase = room.PhasePhase3
			r.P3.CurrentQRH = "engine_fire"
			r.P3.ActiveChecklistLen = 5
			obs := o.Observe(r)
			So(obs.Context["current_qrh"], ShouldEqual, "engine_fire")
			So(obs.Context["active_checklist_len"], ShouldEqual, 5)
		})

		Convey("In the waiting phase, an empty context is returned", func() {
			r := room.New("r1")
			obs := o.Observe(r)
			So(obs.Context, ShouldBeEmpty)
		})
	})
}
