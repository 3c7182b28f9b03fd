package agent

import (
	"encoding/json"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

// randomDelay sleeps a random duration in [min, max], the human-scale
// pacing §4.4 requires so AI actions don't arrive instantaneously.
func randomDelay(min, max time.Duration) {
	if max <= min {
		time.Sleep(min)
		return
	}
	d := min + time.Duration(rand.Int63n(int64(max-min)))
	time.Sleep(d)
}

const (
	fastDecisionMin = 1 * time.Second
	fastDecisionMax = 3 * time.Second
	slowThinkingMin = 3 * time.Second
	slowThinkingMax = 6 * time.Second
)

var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// parseJSONResponse tries a direct unmarshal first, then falls back to
// extracting the first {...} block, the way the original's
// parse_json_response degrades on chatty model replies that wrap JSON in
// prose.
func parseJSONResponse(raw string) (map[string]any, bool) {
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, true
	}
	if m := jsonObjectPattern.FindString(raw); m != "" {
		if err := json.Unmarshal([]byte(m), &out); err == nil {
			return out, true
		}
	}
	return nil, false
}

var approveWords = []string{"approve", "yes", "true", "agree", "correct", "reasonable"}
var rejectWords = []string{"reject", "no", "false", "incorrect", "unreasonable"}

// parseApproval maps a free-text recommendation to a boolean, defaulting to
// approve when no keyword matches, mirroring the original's parse_approval.
func parseApproval(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range rejectWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	for _, w := range approveWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return true
}
