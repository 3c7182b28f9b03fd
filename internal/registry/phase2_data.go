package registry

// gaugeConfigs is the static instrument panel description. Baselines and
// failure values are drawn from spec.md §4.2 step 2's worked event
// definitions (oil_p=10, rpm=2100, vacuum=3.0, ammeter=-12 as failure-side
// readings against the baselines below).
var gaugeConfigs = map[string]GaugeConfig{
	"airspeed": {
		Name:        "Airspeed",
		Baseline:    110,
		NormalRange: "90-130",
		Unit:        "kt",
	},
	"altitude": {
		Name:        "Altitude",
		Baseline:    4500,
		NormalRange: "4000-5000",
		Unit:        "ft",
	},
	"oil_pressure": {
		Name:        "Oil Pressure",
		Baseline:    80,
		NormalRange: "55-95",
		Unit:        "psi",
	},
	"rpm": {
		Name:        "Engine RPM",
		Baseline:    2400,
		NormalRange: "2200-2500",
		Unit:        "rpm",
	},
	"fuel": {
		Name:          "Fuel Quantity",
		BaselineLeft:  25,
		BaselineRight: 25,
		NormalRange:   "balanced within 5 gal",
		Unit:          "gal",
	},
	"vacuum": {
		Name:        "Vacuum",
		Baseline:    5.0,
		NormalRange: "4.5-5.5",
		Unit:        "inHg",
	},
	"ammeter": {
		Name:        "Ammeter",
		Baseline:    0,
		NormalRange: "-5 to +5",
		Unit:        "A",
	},
}

// phase2Scenarios is the Phase-2 scripted-flight scenario library. The
// routine_flight scenario runs 180s and holds a single fuel-imbalance event
// (precursor from 30s, alert at 75s); it has no second event.
var phase2Scenarios = []Phase2Scenario{
	{
		Name:      "routine_flight",
		DurationS: 180,
		Events: []Event{
			{
				ID:              "fuel_imbalance",
				Name:            "Fuel Imbalance",
				PrecursorStartS: 30,
				AlertStartS:     75,
				EventEndS:       150,
				Precursor: Precursor{
					Gauge:       "fuel",
					Pattern:     "asymmetric",
					Description: "Left and right fuel quantities begin to diverge gradually.",
				},
				Alert: Alert{
					Severity: "caution",
					Message:  "FUEL IMBALANCE",
				},
				DetectionScore: 15,
				ReactionScore:  15,
			},
		},
		AcceptableQRH: []string{"fuel_imbalance"},
	},
	{
		Name:      "oil_loss",
		DurationS: 240,
		Events: []Event{
			{
				ID:              "low_oil_pressure",
				Name:            "Low Oil Pressure",
				PrecursorStartS: 20,
				AlertStartS:     60,
				EventEndS:       200,
				Precursor: Precursor{
					Gauge:       "oil_pressure",
					Pattern:     "gradual_drop",
					Description: "Oil pressure begins a slow, steady decline from baseline.",
				},
				Alert: Alert{
					Severity: "warning",
					Message:  "LOW OIL PRESSURE",
				},
				DetectionScore: 20,
				ReactionScore:  20,
			},
		},
		AcceptableQRH: []string{"low_oil_pressure"},
	},
	{
		Name:      "carb_icing_then_electrical",
		DurationS: 300,
		Events: []Event{
			{
				ID:              "carburetor_icing",
				Name:            "Carburetor Icing",
				PrecursorStartS: 15,
				AlertStartS:     50,
				EventEndS:       120,
				Precursor: Precursor{
					Gauge:       "rpm",
					Pattern:     "fluctuate_down",
					Description: "RPM fluctuates and trends downward with no throttle change.",
				},
				Alert: Alert{
					Severity: "caution",
					Message:  "CARBURETOR ICING",
				},
				DetectionScore: 15,
				ReactionScore:  15,
			},
			{
				ID:              "electrical_fire",
				Name:            "Electrical Fire",
				PrecursorStartS: 150,
				AlertStartS:     190,
				EventEndS:       260,
				Precursor: Precursor{
					Gauge:       "ammeter",
					Pattern:     "discharge",
					Description: "Ammeter shows a sustained discharge with no corresponding load change.",
				},
				Alert: Alert{
					Severity: "failure",
					Message:  "ELECTRICAL FIRE",
				},
				DetectionScore: 20,
				ReactionScore:  25,
			},
		},
		AcceptableQRH: []string{"carburetor_icing", "electrical_fire"},
	},
}

// GaugeConfigs returns the static instrument panel description.
func GaugeConfigs() map[string]GaugeConfig { return gaugeConfigs }

// PhaseTwoScenarios returns the Phase-2 scripted-flight scenario library.
func PhaseTwoScenarios() []Phase2Scenario { return phase2Scenarios }

// FindScenario looks up a Phase-2 scenario by name.
func FindScenario(name string) (Phase2Scenario, bool) {
	for _, s := range phase2Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Phase2Scenario{}, false
}
