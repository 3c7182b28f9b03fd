package registry

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBuiltinLookups(t *testing.T) {
	Convey("Given the built-in registry", t, func() {
		r := New()

		Convey("Threat looks up a known keyword and reports unknown ones as missing", func() {
			threat, ok := r.Threat("24015G25KT")
			So(ok, ShouldBeTrue)
			So(threat.Description, ShouldNotBeEmpty)

			_, ok = r.Threat("nonexistent")
			So(ok, ShouldBeFalse)
		})

		Convey("Threat.Option looks up a known option id", func() {
			threat, _ := r.Threat("24015G25KT")
			opt, ok := threat.Option("standard_procedure")
			So(ok, ShouldBeTrue)
			So(opt.IsCorrect, ShouldBeTrue)

			_, ok = threat.Option("nonexistent")
			So(ok, ShouldBeFalse)
		})

		Convey("Every quiz question has exactly one correct option", func() {
			for _, q := range r.Quiz() {
				id, ok := q.CorrectOptionID()
				So(ok, ShouldBeTrue)
				So(id, ShouldNotBeEmpty)
			}
		})

		Convey("The fuel gauge reports IsFuel true and other gauges report false", func() {
			fuel, ok := r.Gauge("fuel")
			So(ok, ShouldBeTrue)
			So(fuel.IsFuel(), ShouldBeTrue)

			oil, ok := r.Gauge("oil_pressure")
			So(ok, ShouldBeTrue)
			So(oil.IsFuel(), ShouldBeFalse)
		})

		Convey("Scenario looks up the built-in routine_flight scenario", func() {
			s, ok := r.Scenario("routine_flight")
			So(ok, ShouldBeTrue)
			So(s.AcceptableQRH, ShouldContain, "fuel_imbalance")
		})

		Convey("Checklist looks up a known QRH key", func() {
			c, ok := r.Checklist("engine_fire")
			So(ok, ShouldBeTrue)
			So(c.Title, ShouldNotBeEmpty)

			_, ok = r.Checklist("nonexistent")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestLoadOverlay(t *testing.T) {
	Convey("Given an overlay YAML file with one extra threat", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "overlay.yaml")
		yaml := `
threats:
  - keyword: "TEST_OVERLAY_THREAT"
    description: "a threat added purely for test coverage"
    options:
      - id: "opt_a"
        text: "do the right thing"
        is_correct: true
      - id: "opt_b"
        text: "do the wrong thing"
        is_correct: false
    sop:
      title: "Test SOP"
      bullets: ["one", "two"]
    score_matrix:
      pf_correct_pm_approve: 10
      pf_correct_pm_reject: 0
      pf_wrong_pm_approve: -10
      pf_wrong_pm_reject: 5
`
		So(os.WriteFile(path, []byte(yaml), 0o644), ShouldBeNil)

		r := New()
		builtinCount := len(r.Threats())

		Convey("LoadOverlay appends the overlay threat without dropping built-ins", func() {
			err := r.LoadOverlay(path)
			So(err, ShouldBeNil)

			all := r.Threats()
			So(len(all), ShouldEqual, builtinCount+1)

			threat, ok := r.Threat("TEST_OVERLAY_THREAT")
			So(ok, ShouldBeTrue)
			So(threat.ScoreMatrix.PFCorrectPMApprove, ShouldEqual, 10)

			_, ok = r.Threat("24015G25KT")
			So(ok, ShouldBeTrue)
		})
	})
}
