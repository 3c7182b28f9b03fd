// Package config assembles the server's runtime configuration: a handful
// of CLI flags for things an operator tweaks per-launch (bind address, log
// directory, scenario overlay path, TTS worker count), and environment
// variables — loaded from a .env file first, per the pack's godotenv
// convention — for everything that looks like a credential.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the fully resolved set of knobs main() needs to wire the
// server together. LLM and TTS credentials are deliberately not logged or
// serialized anywhere.
type Config struct {
	BindAddr       string
	LogDir         string
	OverlayPath    string
	TTSWorkers     int
	MetricsEnabled bool

	Anthropic LLMCredentials
	OpenAI    LLMCredentials
	TTS       TTSCredentials
}

// LLMCredentials names one LLM provider's connection details.
type LLMCredentials struct {
	APIKey  string
	BaseURL string
	Model   string
}

// TTSCredentials names the TTS provider's connection details; it reuses the
// OpenAI key by default since many OpenAI-compatible TTS gateways share it.
type TTSCredentials struct {
	APIKey  string
	BaseURL string
	Model   string
	Voice   string
}

// Load parses CLI flags and environment, loading a local .env file first if
// present (godotenv.Load only sets variables not already in the
// environment, so real deployment env vars always win).
func Load() Config {
	_ = godotenv.Load()

	bindAddr := flag.String("addr", envOr("TEM_BIND_ADDR", ":8080"), "HTTP bind address")
	logDir := flag.String("logdir", envOr("TEM_LOG_DIR", "./session_logs"), "session log directory")
	overlayPath := flag.String("overlay", os.Getenv("TEM_SCENARIO_OVERLAY"), "optional scenario registry overlay YAML path")
	ttsWorkers := flag.Int("tts-workers", envOrInt("TEM_TTS_WORKERS", 4), "max concurrent TTS synthesis calls")
	metricsEnabled := flag.Bool("metrics", envOrBool("TEM_METRICS_ENABLED", true), "serve /metrics")
	flag.Parse()

	return Config{
		BindAddr:       *bindAddr,
		LogDir:         *logDir,
		OverlayPath:    *overlayPath,
		TTSWorkers:     *ttsWorkers,
		MetricsEnabled: *metricsEnabled,
		Anthropic: LLMCredentials{
			APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
			BaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
			Model:   os.Getenv("ANTHROPIC_MODEL"),
		},
		OpenAI: LLMCredentials{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   os.Getenv("OPENAI_MODEL"),
		},
		TTS: TTSCredentials{
			APIKey:  firstNonEmpty(os.Getenv("TTS_API_KEY"), os.Getenv("OPENAI_API_KEY")),
			BaseURL: firstNonEmpty(os.Getenv("TTS_BASE_URL"), os.Getenv("OPENAI_BASE_URL")),
			Model:   os.Getenv("TTS_MODEL"),
			Voice:   envOr("TTS_VOICE", "alloy"),
		},
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envOrInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envOrBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
