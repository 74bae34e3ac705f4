package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/ficopilot/internal/common"
	"github.com/bobmcallan/ficopilot/internal/workbook"
)

// handleHealth responds to GET/HEAD /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"uptime":   time.Since(s.app.StartupTime).Round(time.Second).String(),
		"sessions": s.app.Sessions.Count(),
	})
}

// handleVersion responds to GET /api/version with build info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleConfig responds to GET /api/config with the effective runtime
// configuration. Nothing secret lives in this config.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":      cfg.Environment,
		"log_level":        cfg.Logging.Level,
		"max_upload_mb":    cfg.Upload.MaxSizeMB,
		"session_idle_ttl": cfg.Sessions.GetIdleTTL().String(),
	})
}

// handleFormatReference responds to GET /api/reference/format with the
// upload contract: required sheets and their required columns.
func (s *Server) handleFormatReference(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sheets": workbook.Contract(),
	})
}
