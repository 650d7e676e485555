// Package web exposes a small HTTP control surface over the panel: health,
// status, brightness and power. All lifecycle access goes through the
// serializing controller, never the panel handle directly.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"panelctl/internal/ctl"
	appLog "panelctl/internal/log"
	"panelctl/internal/panel"
)

// Server provides the HTTP API for the panel controller.
type Server struct {
	ctrl   *ctl.Controller
	timing panel.TimingProfile
	mux    *http.ServeMux
}

// NewServer constructs a new Server.
func NewServer(ctrl *ctl.Controller, timing panel.TimingProfile) *Server {
	s := &Server{
		ctrl:   ctrl,
		timing: timing,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/api/brightness", s.handleBrightness)
	s.mux.HandleFunc("/api/power", s.handlePower)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// statusResponse is the /api/status payload.
type statusResponse struct {
	State    string              `json:"state"`
	Revision string              `json:"revision"`
	Timing   panel.TimingProfile `json:"timing"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		State:    s.ctrl.State().String(),
		Revision: s.ctrl.Profile().Name,
		Timing:   s.timing,
	})
}

// brightnessBody is both the GET response and the POST request payload.
type brightnessBody struct {
	Value uint16 `json:"value"`
}

func (s *Server) handleBrightness(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		value, err := s.ctrl.GetBrightness()
		if err != nil {
			if errors.Is(err, panel.ErrUnsupported) {
				http.Error(w, err.Error(), http.StatusNotImplemented)
				return
			}
			appLog.Error("web: brightness read failed", err)
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, brightnessBody{Value: value})

	case http.MethodPost:
		var body brightnessBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		if err := s.ctrl.SetBrightness(body.Value); err != nil {
			appLog.Error("web: brightness write failed", err)
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, body)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// powerBody is the POST /api/power payload.
type powerBody struct {
	On bool `json:"on"`
}

func (s *Server) handlePower(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body powerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	var err error
	if body.On {
		err = s.ctrl.Up()
	} else {
		err = s.ctrl.Down()
	}
	if err != nil {
		if errors.Is(err, panel.ErrInvalidTransition) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		appLog.Error("web: power transition failed", err, "on", body.On)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		State:    s.ctrl.State().String(),
		Revision: s.ctrl.Profile().Name,
		Timing:   s.timing,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("web: response encode failed", err)
	}
}
