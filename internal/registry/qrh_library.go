package registry

import "strings"

// qrhLibrary is the Quick-Reference-Handbook emergency checklist library,
// ported verbatim (titles and item text) from the original implementation's
// QRH_LIBRARY table.
var qrhLibrary = map[string]Checklist{
	"low_oil_pressure": {
		Key:   "low_oil_pressure",
		Title: "LOW OIL PRESSURE",
		Items: []string{
			"Reduce power to minimize engine stress",
			"Monitor oil temperature for abnormal rise",
			"Prepare for precautionary landing at nearest suitable airport",
		},
	},
	"engine_fire": {
		Key:   "engine_fire",
		Title: "ENGINE FIRE IN FLIGHT",
		Items: []string{
			"Mixture - IDLE CUT-OFF",
			"Fuel Selector - OFF",
			"Master Switch - OFF",
			"Cabin Heat/Air - OFF",
			"Execute forced landing procedure",
		},
	},
	"electrical_fire": {
		Key:   "electrical_fire",
		Title: "ELECTRICAL FIRE",
		Items: []string{
			"Master Switch - OFF",
			"All Electrical Switches - OFF",
			"Vents/Cabin Air - OPEN",
			"Land as soon as practical",
		},
	},
	"carburetor_icing": {
		Key:   "carburetor_icing",
		Title: "CARBURETOR ICING",
		Items: []string{
			"Carburetor Heat - ON (full)",
			"Throttle - ADJUST as needed to maintain RPM",
			"Mixture - LEAN as required",
			"Monitor RPM for recovery",
		},
	},
	"fuel_imbalance": {
		Key:   "fuel_imbalance",
		Title: "FUEL IMBALANCE",
		Items: []string{
			"Fuel Selector - SELECT fuller tank",
			"Monitor fuel quantity gauges",
			"Check for fuel leak on lighter side",
			"Recompute weight and balance if imbalance persists",
		},
	},
	"vacuum_failure": {
		Key:   "vacuum_failure",
		Title: "VACUUM SYSTEM FAILURE",
		Items: []string{
			"Cross-check attitude against airspeed, altimeter, and turn coordinator",
			"Vacuum Gauge - CONFIRM failure",
			"Disregard attitude indicator and heading indicator",
			"Transition to partial-panel instrument scan",
		},
	},
	"alternator_failure": {
		Key:   "alternator_failure",
		Title: "ALTERNATOR FAILURE",
		Items: []string{
			"Alternator - RESET (cycle switch)",
			"Non-essential Electrical Equipment - OFF",
			"Monitor ammeter and battery voltage",
			"Plan to land before battery depletion",
			"Land as soon as practical",
		},
	},
}

// QRHLibrary returns the emergency checklist library.
func QRHLibrary() map[string]Checklist { return qrhLibrary }

// FindChecklist looks up a checklist by key.
func FindChecklist(key string) (Checklist, bool) {
	c, ok := qrhLibrary[key]
	return c, ok
}

// eventAlertToQRHKey maps an Event's alert keyword substring to the QRH
// checklist it should trigger, the same mapping the original's dual-process
// agent used to pick a checklist from an event_alert broadcast.
var eventAlertToQRHKey = map[string]string{
	"OIL PRESSURE":    "low_oil_pressure",
	"CARBURETOR ICING": "carburetor_icing",
	"FUEL IMBALANCE":   "fuel_imbalance",
	"VACUUM":           "vacuum_failure",
	"ALTERNATOR":       "alternator_failure",
	"ENGINE FIRE":      "engine_fire",
	"ELECTRICAL FIRE":  "electrical_fire",
}

// QRHKeyForAlert resolves an alert message to its QRH checklist key by
// substring match, mirroring the original's keyword dictionary lookup.
func QRHKeyForAlert(alertMessage string) (string, bool) {
	upper := strings.ToUpper(alertMessage)
	for substr, key := range eventAlertToQRHKey {
		if strings.Contains(upper, substr) {
			return key, true
		}
	}
	return "", false
}
