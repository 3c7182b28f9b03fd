package registry

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Overlay is the optional operator-supplied supplement to the built-in data
// tables, loaded from a YAML file so new scenarios/threats can be added
// without a rebuild. Any field left empty leaves the built-in table as-is.
type Overlay struct {
	Threats   []Threat         `yaml:"threats"`
	Scenarios []Phase2Scenario `yaml:"scenarios"`
}

// Registry is the read-only scenario and reference data store. It starts
// from the built-in Go literal tables and optionally merges in an Overlay
// file, re-read on each fsnotify change event.
type Registry struct {
	mu sync.RWMutex

	threats       []Threat
	quiz          []QuizQuestion
	gauges        map[string]GaugeConfig
	scenarios     []Phase2Scenario
	checklists    map[string]Checklist
	briefings     []Briefing
	dynamicEvent  Briefing
	overlayPath   string
}

// New builds a Registry from the built-in tables with no overlay.
func New() *Registry {
	return &Registry{
		threats:      phase1Threats,
		quiz:         emergencyQuiz,
		gauges:       gaugeConfigs,
		scenarios:    phase2Scenarios,
		checklists:   qrhLibrary,
		briefings:    briefings,
		dynamicEvent: dynamicBriefingEvent,
	}
}

// LoadOverlay reads an operator-supplied YAML file and merges its threats
// and scenarios into the registry, appending to (not replacing) the
// built-in tables. Grounded on reinforcement.FromYaml's viper.New() +
// SetConfigFile + AddConfigPath shape, trimmed to this package's needs
// since the overlay is plain YAML, not a nested viper "kind/def" document.
func (r *Registry) LoadOverlay(path string) error {
	vp := viper.New()
	vp.SetConfigFile(filepath.Base(path))
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return fmt.Errorf("registry: read overlay %s: %w", path, err)
	}

	raw, err := yaml.Marshal(vp.AllSettings())
	if err != nil {
		return fmt.Errorf("registry: marshal overlay settings: %w", err)
	}

	var overlay Overlay
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("registry: unmarshal overlay %s: %w", path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlayPath = path
	r.threats = append(append([]Threat{}, phase1Threats...), overlay.Threats...)
	r.scenarios = append(append([]Phase2Scenario{}, phase2Scenarios...), overlay.Scenarios...)
	return nil
}

// Watch starts an fsnotify watch on the overlay file's directory, reloading
// the overlay whenever the file changes, the way the teacher's config
// design note describes a Viper-watched reactive config. It runs until
// stop is closed.
func (r *Registry) Watch(stop <-chan struct{}) error {
	if r.overlayPath == "" {
		return fmt.Errorf("registry: no overlay loaded, nothing to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("registry: create watcher: %w", err)
	}

	dir := filepath.Dir(r.overlayPath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("registry: watch %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-stop:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(r.overlayPath) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := r.LoadOverlay(r.overlayPath); err != nil {
					log.Error().Err(err).Str("path", r.overlayPath).Msg("registry: overlay reload failed")
				} else {
					log.Info().Str("path", r.overlayPath).Msg("registry: overlay reloaded")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("registry: watcher error")
			}
		}
	}()

	return nil
}

// Threats returns the current Phase-1 threat deck (built-in + overlay).
func (r *Registry) Threats() []Threat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Threat, len(r.threats))
	copy(out, r.threats)
	return out
}

// Threat looks up a single threat by keyword.
func (r *Registry) Threat(keyword string) (Threat, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.threats {
		if t.Keyword == keyword {
			return t, true
		}
	}
	return Threat{}, false
}

// Quiz returns the emergency-procedures quiz deck.
func (r *Registry) Quiz() []QuizQuestion {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]QuizQuestion, len(r.quiz))
	copy(out, r.quiz)
	return out
}

// Gauge looks up a gauge's static configuration by id.
func (r *Registry) Gauge(id string) (GaugeConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.gauges[id]
	return g, ok
}

// Gauges returns the full instrument panel description.
func (r *Registry) Gauges() map[string]GaugeConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]GaugeConfig, len(r.gauges))
	for k, v := range r.gauges {
		out[k] = v
	}
	return out
}

// Scenario looks up a Phase-2 scenario by name (built-in + overlay).
func (r *Registry) Scenario(name string) (Phase2Scenario, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Phase2Scenario{}, false
}

// Scenarios returns the full Phase-2 scenario library.
func (r *Registry) Scenarios() []Phase2Scenario {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Phase2Scenario, len(r.scenarios))
	copy(out, r.scenarios)
	return out
}

// Checklist looks up a QRH checklist by key.
func (r *Registry) Checklist(key string) (Checklist, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.checklists[key]
	return c, ok
}

// Briefings returns the static pre-flight reference bulletins.
func (r *Registry) Briefings() []Briefing {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Briefing, len(r.briefings))
	copy(out, r.briefings)
	return out
}

// DynamicBriefingEvent returns the scripted mid-briefing dispatch injection.
func (r *Registry) DynamicBriefingEvent() Briefing {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dynamicEvent
}
