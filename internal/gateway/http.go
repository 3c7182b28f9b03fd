package gateway

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"temserver/internal/gamelogic"
)

// Server wires the websocket upgrade handler and health/metrics endpoints
// onto a gorilla/mux router, the way the teacher's design note on
// gorilla/mux describes routing /ws alongside plain HTTP endpoints.
type Server struct {
	Router *mux.Router

	hub *Hub
	gl  *gamelogic.GameLogic
	tts TTSSubmitter
	cb  Callbacks
}

// NewServer builds the router and registers routes. metricsHandler may be
// nil if Prometheus metrics aren't mounted.
func NewServer(hub *Hub, gl *gamelogic.GameLogic, tts TTSSubmitter, cb Callbacks, metricsHandler http.Handler) *Server {
	s := &Server{Router: mux.NewRouter(), hub: hub, gl: gl, tts: tts, cb: cb}

	s.Router.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	s.Router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if metricsHandler != nil {
		s.Router.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}
	return s
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	client, err := Upgrade(w, r, s.hub, s.gl, s.tts, s.cb)
	if err != nil {
		log.Error().Err(err).Msg("gateway: websocket upgrade failed")
		return
	}

	go func() {
		if err := client.Run(context.Background()); err != nil {
			log.Debug().Err(err).Str("handle", client.handle).Msg("gateway: client connection ended")
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
