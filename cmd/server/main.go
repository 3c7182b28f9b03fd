/*
Command server runs the aviation Threat-and-Error-Management training
backend: the WebSocket Gateway, the per-room Game Logic and Simulation
Loop, the dual-process AI Agent, and the TTS Fan-out. Configuration is a
mix of CLI flags and environment (see internal/config); the scenario
registry is built-in data optionally extended by a hot-reloaded YAML
overlay (see internal/registry).
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"temserver/internal/agent"
	"temserver/internal/config"
	"temserver/internal/gamelogic"
	"temserver/internal/gateway"
	"temserver/internal/llmengine"
	"temserver/internal/metrics"
	"temserver/internal/registry"
	"temserver/internal/room"
	"temserver/internal/simulation"
	"temserver/internal/tts"
)

const shutdownGrace = 10 * time.Second

func runApp() error {
	cfg := config.Load()

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	reg := registry.New()
	if cfg.OverlayPath != "" {
		if err := reg.LoadOverlay(cfg.OverlayPath); err != nil {
			log.Error().Err(err).Str("path", cfg.OverlayPath).Msg("failed to load scenario overlay, continuing with built-ins")
		} else {
			stop := make(chan struct{})
			go reg.Watch(stop)
			go func() {
				<-appCtx.Done()
				close(stop)
			}()
		}
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	store := room.NewStore(m)
	hub := gateway.NewHub()
	router := newAgentRouter()

	gl := gamelogic.New(store, reg, hub, router, cfg.LogDir)

	synth := tts.NewHTTPSynthClient(cfg.TTS.BaseURL, cfg.TTS.APIKey, cfg.TTS.Model, nil)
	ttsPool := tts.NewPool(cfg.TTSWorkers, synth, hub, store, cfg.TTS.Voice, m)
	go ttsPool.Run(appCtx)

	slow := buildSlowEngine(cfg)
	fast := buildFastEngine(cfg)

	cb := gateway.Callbacks{
		OnNeedsAI: func(roomID string, aiRole room.Role, aiName string) {
			a := agent.New(roomID, aiRole, aiName, store, reg, gl,
				agent.StrategyGenerator{Slow: slow, Metrics: m},
				agent.ActionExecutor{Fast: fast, Metrics: m},
			)
			router.register(roomID, a)
		},
		OnPhase2Start: func(roomID string) {
			loop := simulation.New(roomID, store, reg, hub, router, m)
			go loop.Run(appCtx)
		},
	}

	var metricsHandler http.Handler
	if m != nil {
		metricsHandler = m.Handler()
	}
	srv := gateway.NewServer(hub, gl, ttsPool, cb, metricsHandler)

	httpSrv := &http.Server{Addr: cfg.BindAddr, Handler: srv.Router}

	go func() {
		log.Info().Str("addr", cfg.BindAddr).Msg("tem server listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")
	appCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func buildSlowEngine(cfg config.Config) llmengine.Engine {
	if cfg.Anthropic.APIKey == "" {
		log.Warn().Msg("no Anthropic credentials configured, AI strategy generation will use its fallback for every call")
		return &llmengine.MockEngine{Err: fmt.Errorf("anthropic not configured")}
	}
	return llmengine.NewAnthropicEngine(llmengine.AnthropicConfig{
		APIKey:  cfg.Anthropic.APIKey,
		BaseURL: cfg.Anthropic.BaseURL,
		Model:   cfg.Anthropic.Model,
	}, nil)
}

func buildFastEngine(cfg config.Config) llmengine.Engine {
	if cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("no OpenAI credentials configured, AI action execution will use its fallback for every call")
		return &llmengine.MockEngine{Err: fmt.Errorf("openai not configured")}
	}
	return llmengine.NewOpenAIEngine(llmengine.OpenAIConfig{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	}, nil)
}

func main() {
	if err := runApp(); err != nil {
		log.Fatal().Err(err).Msg("tem server exited with error")
	}
}
