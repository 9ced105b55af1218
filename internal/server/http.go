package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/krakenctl/internal/logging"
	"github.com/muurk/krakenctl/internal/version"
)

const (
	websocketPath = "/ws"
	statusPath    = "/status"
	healthPath    = "/healthz"
)

// Handler returns the HTTP routes served by the telemetry server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(websocketPath, s.handleWebSocket)
	mux.HandleFunc(statusPath, s.handleStatus)
	mux.HandleFunc(healthPath, s.handleHealth)
	return mux
}

// handleStatus returns the latest reading as JSON. Before the first
// successful poll it answers 503.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reading, ok := s.poller.Latest()
	if !ok {
		msg := "no status available yet"
		if err := s.poller.LastError(); err != nil {
			msg = err.Error()
		}
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": msg})
		return
	}
	writeJSON(w, http.StatusOK, reading)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := map[string]any{
		"clients": s.GetActiveConnections(),
		"ok":      s.poller.LastError() == nil,
	}
	if err := s.poller.LastError(); err != nil {
		status["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Server", version.ClientID())
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Failed to write response", zap.Error(err))
	}
}
