package registry

// phase1Threats is the Phase-1 threat-identification deck. Keywords and the
// first three threats below (24015G25KT, Landing_Light_U/S,
// Recovering_from_Cold) are the exact keywords/options spec.md's worked
// examples S1-S3 exercise; the scoring matrix on each follows the
// spec.md §3/§4.1 2x2 table, with the PFCorrectPMReject cell resolved per
// the Open Question decision recorded in SPEC_FULL.md (0).
var phase1Threats = []Threat{
	{
		Keyword:     "24015G25KT",
		Description: "Surface wind 240 at 15 knots gusting 25 — a significant crosswind component for the active runway.",
		Options: []Option{
			{ID: "standard_procedure", Text: "Brief a crosswind-landing technique and confirm the demonstrated crosswind component.", IsCorrect: true},
			{ID: "ignore_wind", Text: "Proceed as planned; the gust is within the reported range.", IsCorrect: false},
		},
		SOP: SOP{
			Title: "Crosswind Operations",
			Bullets: []string{
				"Compute the crosswind component against the aircraft's demonstrated limit.",
				"Brief wing-low or crab technique before the approach.",
				"Brief a go-around trigger if controllability is in doubt.",
			},
		},
		ScoreMatrix: ScoreMatrix{PFCorrectPMApprove: 15, PFCorrectPMReject: 0, PFWrongPMApprove: -20, PFWrongPMReject: 5},
	},
	{
		Keyword:     "Landing_Light_U/S",
		Description: "The landing light is unserviceable per the tech log, deferred under the MEL.",
		Options: []Option{
			{ID: "consult_mel", Text: "Consult the MEL entry and confirm operating limitations before departure.", IsCorrect: true},
			{ID: "daylight_ok", Text: "It's a daytime flight, so the inoperative landing light doesn't matter.", IsCorrect: false},
		},
		SOP: SOP{
			Title: "Minimum Equipment List Compliance",
			Bullets: []string{
				"Verify the deferred item against the current MEL revision.",
				"Confirm no operational or performance limitation applies to this sector.",
				"Record MEL compliance in the dispatch release.",
			},
		},
		ScoreMatrix: ScoreMatrix{PFCorrectPMApprove: 15, PFCorrectPMReject: 0, PFWrongPMApprove: -20, PFWrongPMReject: 5},
	},
	{
		Keyword:     "Recovering_from_Cold",
		Description: "The aircraft sat overnight in sub-freezing temperatures; the engine is cold-soaked.",
		Options: []Option{
			{ID: "extended_warmup", Text: "Extend the warm-up period and monitor oil temperature/pressure before high power settings.", IsCorrect: true},
			{ID: "skip_warmup", Text: "Skip the extended warm-up; taxi and depart on the normal schedule.", IsCorrect: false},
		},
		SOP: SOP{
			Title: "Cold-Weather Engine Start",
			Bullets: []string{
				"Allow oil pressure and temperature to reach the green arc before takeoff power.",
				"Avoid abrupt power changes on a cold-soaked engine.",
				"Delay departure if oil temperature has not stabilized.",
			},
		},
		ScoreMatrix: ScoreMatrix{PFCorrectPMApprove: 15, PFCorrectPMReject: 0, PFWrongPMApprove: -20, PFWrongPMReject: 5},
	},
	{
		Keyword:     "NOTAM_RWY_Shortened",
		Description: "A NOTAM reports the active runway's available takeoff distance is reduced for construction.",
		Options: []Option{
			{ID: "recompute_performance", Text: "Recompute takeoff performance against the reduced distance before accepting the runway.", IsCorrect: true},
			{ID: "assume_margin", Text: "Assume the usual performance margin is sufficient without recomputing.", IsCorrect: false},
		},
		SOP: SOP{
			Title: "Runway Performance Recalculation",
			Bullets: []string{
				"Pull the current NOTAM-adjusted runway length.",
				"Recompute takeoff distance required against distance available.",
				"Brief an abort point consistent with the reduced distance.",
			},
		},
		ScoreMatrix: ScoreMatrix{PFCorrectPMApprove: 15, PFCorrectPMReject: 0, PFWrongPMApprove: -20, PFWrongPMReject: 5},
	},
}

// emergencyQuiz is the Phase-1 emergency-procedures quiz delivered to the PM.
var emergencyQuiz = []QuizQuestion{
	{
		ID:       "q_carb_ice",
		Question: "Rough running with a gradual RPM loss in cruise, no other symptoms — what's the first action?",
		Options: []Option{
			{ID: "a", Text: "Apply full carburetor heat and lean as needed.", IsCorrect: true},
			{ID: "b", Text: "Reduce throttle to idle immediately.", IsCorrect: false},
			{ID: "c", Text: "Switch fuel tanks.", IsCorrect: false},
		},
		Explanation: "Gradual RPM loss with rough running in cruise is the classic carburetor-icing signature; carb heat is the first action.",
	},
	{
		ID:       "q_oil_pressure",
		Question: "Oil pressure drops to zero with normal oil temperature — what does this most likely indicate?",
		Options: []Option{
			{ID: "a", Text: "A failed oil pressure gauge or sender, not an actual loss of oil.", IsCorrect: false},
			{ID: "b", Text: "An actual loss of oil pressure; prepare for engine failure.", IsCorrect: true},
			{ID: "c", Text: "Normal indication after a cold start.", IsCorrect: false},
		},
		Explanation: "Zero oil pressure with normal temperature is treated as a real pressure loss until proven otherwise — reduce power and prepare for engine failure.",
	},
	{
		ID:       "q_electrical",
		Question: "Smoke and an acrid smell appear from behind the panel — what is the correct first step?",
		Options: []Option{
			{ID: "a", Text: "Open a window to clear the smoke.", IsCorrect: false},
			{ID: "b", Text: "Master switch OFF.", IsCorrect: true},
			{ID: "c", Text: "Cycle the avionics one at a time to find the fault.", IsCorrect: false},
		},
		Explanation: "Electrical fire in flight: master switch OFF first, to remove the power source before anything else.",
	},
}

// PhaseOneThreats returns the Phase-1 threat deck.
func PhaseOneThreats() []Threat { return phase1Threats }

// EmergencyQuiz returns the emergency-procedures quiz.
func EmergencyQuiz() []QuizQuestion { return emergencyQuiz }
