package server

import (
	"net/http"
	"strings"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Upload contract reference
	mux.HandleFunc("/api/reference/format", s.handleFormatReference)

	// Sessions
	mux.HandleFunc("/api/sessions/", s.routeSessions)
	mux.HandleFunc("/api/sessions", s.handleSessionCreate)
}

// routeSessions dispatches /api/sessions/{id}/* to the appropriate handler.
func (s *Server) routeSessions(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if path == "" {
		s.handleSessionCreate(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	switch subpath {
	case "":
		switch r.Method {
		case http.MethodGet:
			s.handleSessionGet(w, r, id)
		case http.MethodPut:
			s.handleSessionReplace(w, r, id)
		case http.MethodDelete:
			s.handleSessionDelete(w, r, id)
		default:
			w.Header().Set("Allow", "GET, PUT, DELETE")
			WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	case "ask":
		s.handleSessionAsk(w, r, id)
	case "chart":
		s.handleSessionChart(w, r, id)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}
