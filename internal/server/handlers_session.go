package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/ficopilot/internal/models"
	"github.com/bobmcallan/ficopilot/internal/workbook"
)

// uploadErrorResponse carries the validation taxonomy for rejected uploads:
// missing sheets are enumerated by name, a missing column names the
// offending identifier, anything else is a read error with the underlying
// message. An invalid upload is rejected whole; nothing partial is kept.
type uploadErrorResponse struct {
	Error  string   `json:"error"`
	Code   string   `json:"code"`
	Sheets []string `json:"sheets,omitempty"`
	Sheet  string   `json:"sheet,omitempty"`
	Column string   `json:"column,omitempty"`
}

// sessionResponse describes a session and its workbook for API clients.
type sessionResponse struct {
	SessionID  string                 `json:"session_id"`
	CreatedAt  time.Time              `json:"created_at"`
	LastActive time.Time              `json:"last_active"`
	Workbook   models.WorkbookSummary `json:"workbook"`
}

func newSessionResponse(session *models.Session) sessionResponse {
	return sessionResponse{
		SessionID:  session.ID,
		CreatedAt:  session.CreatedAt,
		LastActive: session.LastActive,
		Workbook:   session.Workbook.Summary(),
	}
}

// loadUpload reads and validates the multipart workbook upload. On failure
// it writes the 400 response and returns nil.
func (s *Server) loadUpload(w http.ResponseWriter, r *http.Request) *models.Workbook {
	r.Body = http.MaxBytesReader(w, r.Body, s.app.Config.Upload.MaxBytes())

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, "Upload requires a multipart 'file' field", "bad_upload")
		return nil
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		WriteErrorWithCode(w, http.StatusBadRequest, "Only .xlsx workbooks are accepted", "bad_upload")
		return nil
	}

	wb, err := workbook.Load(file, header.Filename)
	if err != nil {
		s.writeUploadError(w, err)
		return nil
	}
	return wb
}

func (s *Server) writeUploadError(w http.ResponseWriter, err error) {
	var missingSheets *workbook.MissingSheetsError
	if errors.As(err, &missingSheets) {
		WriteJSON(w, http.StatusBadRequest, uploadErrorResponse{
			Error:  missingSheets.Error(),
			Code:   "missing_sheets",
			Sheets: missingSheets.Sheets,
		})
		return
	}

	var missingColumn *workbook.MissingColumnError
	if errors.As(err, &missingColumn) {
		WriteJSON(w, http.StatusBadRequest, uploadErrorResponse{
			Error:  missingColumn.Error(),
			Code:   "missing_column",
			Sheet:  missingColumn.Sheet,
			Column: missingColumn.Column,
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, uploadErrorResponse{
		Error: err.Error(),
		Code:  "read_error",
	})
}

// handleSessionCreate handles POST /api/sessions: validate the uploaded
// workbook and open a session around the snapshot.
func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	wb := s.loadUpload(w, r)
	if wb == nil {
		return
	}

	session := s.app.Sessions.Create(wb)
	WriteJSON(w, http.StatusCreated, newSessionResponse(session))
}

// handleSessionGet handles GET /api/sessions/{id}.
func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request, id string) {
	session, ok := s.app.Sessions.Get(id)
	if !ok {
		WriteErrorWithCode(w, http.StatusNotFound, "Session not found", "session_not_found")
		return
	}
	WriteJSON(w, http.StatusOK, newSessionResponse(session))
}

// handleSessionReplace handles PUT /api/sessions/{id}: re-upload. The new
// workbook replaces the session's snapshot wholesale.
func (s *Server) handleSessionReplace(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := s.app.Sessions.Get(id); !ok {
		WriteErrorWithCode(w, http.StatusNotFound, "Session not found", "session_not_found")
		return
	}

	wb := s.loadUpload(w, r)
	if wb == nil {
		return
	}

	session, ok := s.app.Sessions.Replace(id, wb)
	if !ok {
		WriteErrorWithCode(w, http.StatusNotFound, "Session not found", "session_not_found")
		return
	}
	WriteJSON(w, http.StatusOK, newSessionResponse(session))
}

// handleSessionDelete handles DELETE /api/sessions/{id}.
func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request, id string) {
	if !s.app.Sessions.Delete(id) {
		WriteErrorWithCode(w, http.StatusNotFound, "Session not found", "session_not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// askRequest is the body of POST /api/sessions/{id}/ask.
type askRequest struct {
	Question string `json:"question"`
}

// handleSessionAsk handles POST /api/sessions/{id}/ask: one question, one
// answer. User-facing conditions (unreadable month, unknown topic, no data)
// are answers, never HTTP errors; the session survives every question.
func (s *Server) handleSessionAsk(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	session, ok := s.app.Sessions.Get(id)
	if !ok {
		WriteErrorWithCode(w, http.StatusNotFound, "Session not found", "session_not_found")
		return
	}

	var req askRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		WriteErrorWithCode(w, http.StatusBadRequest, "Please enter a question!", "empty_question")
		return
	}

	answer := s.answerSafely(session.Workbook, req.Question)
	WriteJSON(w, http.StatusOK, answer)
}

// answerSafely converts any residual computation failure into user-visible
// answer text so no question can take the session down.
func (s *Server) answerSafely(wb *models.Workbook, question string) (answer *models.Answer) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error().
				Str("panic", fmt.Sprintf("%v", rec)).
				Msg("Question handling failed")
			answer = &models.Answer{
				Text: fmt.Sprintf("Error: %v. Please verify your data format.", rec),
			}
		}
	}()
	return s.app.QueryService.Answer(wb, question)
}

// handleSessionChart handles POST /api/sessions/{id}/chart: rasterize a
// chart spec (as returned in an Answer) to PNG.
func (s *Server) handleSessionChart(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if _, ok := s.app.Sessions.Get(id); !ok {
		WriteErrorWithCode(w, http.StatusNotFound, "Session not found", "session_not_found")
		return
	}

	var spec models.ChartSpec
	if !DecodeJSON(w, r, &spec) {
		return
	}

	var buf bytes.Buffer
	if err := s.app.Renderer.Render(&spec, &buf); err != nil {
		s.logger.Error().Err(err).Msg("Chart render failed")
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "chart_render_failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
