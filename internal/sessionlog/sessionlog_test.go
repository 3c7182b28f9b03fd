package sessionlog

import (
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSessionLog(t *testing.T) {
	Convey("Given a freshly opened session log", t, func() {
		dir := t.TempDir()
		start := time.Now().Add(-5 * time.Minute)
		lg, err := Open(dir, "roomA", start)
		So(err, ShouldBeNil)

		Convey("Appended records and the final Close can be replayed in order", func() {
			So(lg.Append("Pat", "PF", "identify_threat", map[string]any{"keyword": "24015G25KT"}, "phase1", 0), ShouldBeNil)
			So(lg.Append("Morgan", "PM", "verify_decision", map[string]any{"keyword": "24015G25KT", "approved": true}, "phase1", 15), ShouldBeNil)
			So(lg.Append("Pat", "PF", "identify_threat", map[string]any{"keyword": "Landing_Light_U/S"}, "phase1", 15), ShouldBeNil)
			So(lg.Append("Morgan", "PM", "verify_decision", map[string]any{"keyword": "Landing_Light_U/S", "approved": false}, "phase1", 15), ShouldBeNil)
			So(lg.Close(), ShouldBeNil)

			path := filepath.Join(dir, "roomA.jsonl")
			records, err := Replay(path)
			So(err, ShouldBeNil)
			So(len(records), ShouldEqual, 4)
			So(records[0].Action, ShouldEqual, "identify_threat")
			So(records[3].Action, ShouldEqual, "verify_decision")
			So(records[3].Score, ShouldEqual, 15)

			Convey("ReplayFinalState folds to the final score and per-keyword handled outcomes", func() {
				score, handled := ReplayFinalState(records)
				So(score, ShouldEqual, 15)
				So(handled, ShouldContainKey, "24015G25KT")
				So(handled, ShouldContainKey, "Landing_Light_U/S")
				So(handled["Landing_Light_U/S"]["approved"], ShouldEqual, false)
			})
		})

		Convey("The opening session_created line is skipped on replay", func() {
			So(lg.Close(), ShouldBeNil)
			path := filepath.Join(dir, "roomA.jsonl")
			records, err := Replay(path)
			So(err, ShouldBeNil)
			So(records, ShouldBeEmpty)
		})
	})

	Convey("Replaying a nonexistent file returns an error", t, func() {
		_, err := Replay(filepath.Join(t.TempDir(), "missing.jsonl"))
		So(err, ShouldNotBeNil)
	})
}
