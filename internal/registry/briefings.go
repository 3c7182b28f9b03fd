package registry

// briefings is the set of static pre-flight reference bulletins available
// during Phase 1, ported from the original prototype's MOCK_DATA bulletins
// (OFP, weather, tech log, NOTAMs).
var briefings = []Briefing{
	{
		Kind: "ofp",
		Body: "OPERATIONAL FLIGHT PLAN\n" +
			"Route: KKK - PPP direct, cruise 4500ft, estimated time enroute 1h10m.\n" +
			"Fuel planned: 50 gal total, 25 gal each side, reserve 45 min.\n" +
			"Weight and balance within limits for 2 crew + full fuel.",
	},
	{
		Kind: "weather",
		Body: "METAR KKK 291853Z 24015G25KT 10SM FEW250 22/12 A3002\n" +
			"TAF KKK 291720Z 2918/3018 24012G22KT P6SM FEW250\n" +
			"  FM292200 26008KT P6SM SCT250",
	},
	{
		Kind: "tech_log",
		Body: "TECH LOG / MEL\n" +
			"Item: Landing light, left wing - INOPERATIVE.\n" +
			"MEL reference: 33-41-1. Category C, daytime VFR only.\n" +
			"Deferred by maintenance control, placard installed.",
	},
	{
		Kind: "notams",
		Body: "NOTAMS\n" +
			"A0142/26 RWY 09/27 TAKEOFF DISTANCE AVAILABLE REDUCED 400FT DUE CONSTRUCTION.\n" +
			"A0156/26 TWY B CLSD BTN TWY A AND APN.",
	},
}

// Briefings returns the static pre-flight reference bulletins.
func Briefings() []Briefing {
	out := make([]Briefing, len(briefings))
	copy(out, briefings)
	return out
}

// dynamicBriefingEvent is the scripted mid-briefing dispatch injection,
// ported from the original prototype's DYNAMIC_EVENT, broadcast as a
// sys_msg a few seconds into Phase 1 crew discussion.
var dynamicBriefingEvent = Briefing{
	Kind: "dispatch_update",
	Body: "!! DISPATCH UPDATE !!\n" +
		"A passenger requiring medical accommodation has been added to the " +
		"manifest. Recompute weight and balance and takeoff performance before " +
		"accepting the revised load.",
}

// DynamicBriefingEvent returns the scripted mid-briefing dispatch injection.
func DynamicBriefingEvent() Briefing { return dynamicBriefingEvent }
