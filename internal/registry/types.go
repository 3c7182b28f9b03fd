// Package registry holds the read-only scenario and reference data tables:
// Phase-1 threats and quiz questions, Phase-2 scenarios and gauge configs,
// QRH checklists, and static pre-flight briefing bulletins. Nothing in this
// package mutates at runtime except the optional YAML overlay load.
package registry

// Option is one selectable response to a Phase-1 threat.
type Option struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	IsCorrect bool   `json:"is_correct" yaml:"is_correct"`
}

// SOP is the standard-operating-procedure reference shown to the PM
// alongside a PF decision awaiting verification.
type SOP struct {
	Title   string   `json:"title" yaml:"title"`
	Bullets []string `json:"bullets" yaml:"bullets"`
}

// ScoreMatrix is the 2x2 PF-correctness x PM-approval scoring table.
type ScoreMatrix struct {
	PFCorrectPMApprove int `json:"pf_correct_pm_approve" yaml:"pf_correct_pm_approve"`
	PFCorrectPMReject  int `json:"pf_correct_pm_reject" yaml:"pf_correct_pm_reject"`
	PFWrongPMApprove   int `json:"pf_wrong_pm_approve" yaml:"pf_wrong_pm_approve"`
	PFWrongPMReject    int `json:"pf_wrong_pm_reject" yaml:"pf_wrong_pm_reject"`
}

// Threat is a single Phase-1 threat-identification item.
type Threat struct {
	Keyword     string      `json:"keyword" yaml:"keyword"`
	Description string      `json:"description" yaml:"description"`
	Options     []Option    `json:"options" yaml:"options"`
	SOP         SOP         `json:"sop" yaml:"sop"`
	ScoreMatrix ScoreMatrix `json:"score_matrix" yaml:"score_matrix"`
}

// Option looks up one of the threat's options by id.
func (t Threat) Option(id string) (Option, bool) {
	for _, o := range t.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// QuizQuestion is one emergency-procedures quiz item shown to the PM.
type QuizQuestion struct {
	ID          string   `json:"id" yaml:"id"`
	Question    string   `json:"question" yaml:"question"`
	Options     []Option `json:"options" yaml:"options"`
	Explanation string   `json:"explanation" yaml:"explanation"`
}

// CorrectOptionID returns the id of the question's correct option, if any.
func (q QuizQuestion) CorrectOptionID() (string, bool) {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o.ID, true
		}
	}
	return "", false
}

// Precursor describes the sub-alert gauge behavior before an Event's alert fires.
type Precursor struct {
	Gauge       string `json:"gauge" yaml:"gauge"`
	Pattern     string `json:"pattern" yaml:"pattern"` // asymmetric, fluctuate_down, gradual_drop, discharge
	Description string `json:"description" yaml:"description"`
}

// Alert describes the explicit failure notification an Event escalates to.
type Alert struct {
	Severity string `json:"severity" yaml:"severity"` // caution, warning, failure
	Message  string `json:"message" yaml:"message"`
}

// Event is one scripted precursor->alert->resolution timeline entry within a
// Phase-2 scenario. Invariant: 0 <= PrecursorStartS < AlertStartS < EventEndS <= Duration.
type Event struct {
	ID               string    `json:"id" yaml:"id"`
	Name             string    `json:"name" yaml:"name"`
	PrecursorStartS  float64   `json:"precursor_start_s" yaml:"precursor_start_s"`
	AlertStartS      float64   `json:"alert_start_s" yaml:"alert_start_s"`
	EventEndS        float64   `json:"event_end_s" yaml:"event_end_s"`
	Precursor        Precursor `json:"precursor" yaml:"precursor"`
	Alert            Alert     `json:"alert" yaml:"alert"`
	DetectionScore   int       `json:"detection_score" yaml:"detection_score"`
	ReactionScore    int       `json:"reaction_score" yaml:"reaction_score"`
}

// GaugeConfig is the static description of one instrument.
type GaugeConfig struct {
	Name         string  `json:"name" yaml:"name"`
	Baseline     float64 `json:"baseline" yaml:"baseline"`
	BaselineLeft float64 `json:"baseline_left,omitempty" yaml:"baseline_left,omitempty"`
	BaselineRight float64 `json:"baseline_right,omitempty" yaml:"baseline_right,omitempty"`
	NormalRange  string  `json:"normal_range" yaml:"normal_range"`
	Unit         string  `json:"unit" yaml:"unit"`
}

// IsFuel reports whether this gauge is the split left/right fuel pair.
func (g GaugeConfig) IsFuel() bool {
	return g.BaselineLeft != 0 || g.BaselineRight != 0
}

// Phase2Scenario is a complete timed Phase-2 flight scenario.
type Phase2Scenario struct {
	Name           string   `json:"name" yaml:"name"`
	DurationS      float64  `json:"duration_s" yaml:"duration_s"`
	Events         []Event  `json:"events" yaml:"events"`
	AcceptableQRH  []string `json:"acceptable_qrh" yaml:"acceptable_qrh"`
}

// Checklist is a QRH emergency checklist.
type Checklist struct {
	Key   string   `json:"key" yaml:"key"`
	Title string   `json:"title" yaml:"title"`
	Items []string `json:"items" yaml:"items"`
}

// Briefing is a static pre-flight reference bulletin (OFP, weather, tech
// log, NOTAMs) available during Phase 1.
type Briefing struct {
	Kind string `json:"kind" yaml:"kind"`
	Body string `json:"body" yaml:"body"`
}
