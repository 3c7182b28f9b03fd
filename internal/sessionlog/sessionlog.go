// Package sessionlog implements the append-only, one-record-per-line JSON
// session log (§6, §3 log_sink): the authoritative reconstruction of a
// session, kept deliberately separate from the ambient zerolog logging used
// elsewhere in this server (see SPEC_FULL.md's Logging section). Game Logic
// and the Simulation Loop are the only writers, and because both run in a
// room's single-dispatch context (§5), no locking is required per record.
package sessionlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Record is one JSON line of the session log, matching §6's persisted
// format exactly.
type Record struct {
	TimestampISO string         `json:"timestamp_iso"`
	ElapsedTimeS float64        `json:"elapsed_time_s"`
	Room         string         `json:"room"`
	Username     string         `json:"username"`
	Role         string         `json:"role"`
	Action       string         `json:"action"`
	Details      map[string]any `json:"details"`
	Phase        string         `json:"phase"`
	Score        int            `json:"score"`
}

// openingRecord is the single header line written when a log is created.
type openingRecord struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
	Room      string `json:"room"`
	LogFile   string `json:"log_file"`
}

// Logger is one room's append-only log file handle.
type Logger struct {
	room      string
	sessStart time.Time
	f         *os.File
	enc       *json.Encoder
}

// Open creates (or truncates) the room's log file under dir and writes the
// opening session_created record.
func Open(dir, room string, sessStart time.Time) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("sessionlog: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.jsonl", room))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("sessionlog: open %s: %w", path, err)
	}

	l := &Logger{room: room, sessStart: sessStart, f: f, enc: json.NewEncoder(f)}
	if err := l.enc.Encode(openingRecord{
		Event:     "session_created",
		Timestamp: sessStart.Format(time.RFC3339Nano),
		Room:      room,
		LogFile:   path,
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("sessionlog: write opening record: %w", err)
	}
	return l, nil
}

// Append writes one domain-event record. The timestamp and elapsed time are
// stamped here so callers need only supply the domain fields.
func (l *Logger) Append(username, role, action string, details map[string]any, phase string, score int) error {
	now := time.Now()
	rec := Record{
		TimestampISO: now.Format(time.RFC3339Nano),
		ElapsedTimeS: now.Sub(l.sessStart).Seconds(),
		Room:         l.room,
		Username:     username,
		Role:         role,
		Action:       action,
		Details:      details,
		Phase:        phase,
		Score:        score,
	}
	if err := l.enc.Encode(rec); err != nil {
		return fmt.Errorf("sessionlog: append %s: %w", action, err)
	}
	return nil
}

// Close closes the underlying file handle.
func (l *Logger) Close() error {
	return l.f.Close()
}

// Replay reads every Record from a session log file in order, for
// invariant 8's (§8) offline reconstruction. The opening session_created
// line is skipped.
func Replay(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sessionlog: open %s for replay: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	var records []Record
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("sessionlog: decode record in %s: %w", path, err)
		}
		var probe map[string]any
		if err := json.Unmarshal(raw, &probe); err != nil {
			continue
		}
		if _, isOpening := probe["event"]; isOpening {
			continue
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReplayFinalState folds a replayed record sequence down to the final score
// and handled-threats outcome map, the two facts invariant 8 (§8) requires
// an exact reconstruction of.
func ReplayFinalState(records []Record) (finalScore int, handledThreats map[string]map[string]any) {
	handledThreats = make(map[string]map[string]any)
	for _, rec := range records {
		finalScore = rec.Score
		if rec.Action == "verify_decision" {
			if keyword, ok := rec.Details["keyword"].(string); ok {
				handledThreats[keyword] = rec.Details
			}
		}
	}
	return finalScore, handledThreats
}
