package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bobmcallan/ficopilot/internal/app"
	"github.com/bobmcallan/ficopilot/internal/common"
	"github.com/bobmcallan/ficopilot/internal/models"
	"github.com/bobmcallan/ficopilot/internal/render"
	"github.com/bobmcallan/ficopilot/internal/services/query"
	"github.com/bobmcallan/ficopilot/internal/services/report"
	"github.com/bobmcallan/ficopilot/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := common.NewSilentLogger()
	reportService := report.NewService(logger)

	a := &app.App{
		Config:        common.NewDefaultConfig(),
		Logger:        logger,
		Sessions:      storage.NewSessionStore(logger),
		ReportService: reportService,
		QueryService:  query.NewService(reportService, logger),
		Renderer:      render.NewRenderer(),
		StartupTime:   time.Now(),
	}
	return NewServer(a)
}

func buildXLSX(t *testing.T, sheets map[string][][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cellRef := fmt.Sprintf("A%d", i+1)
			require.NoError(t, f.SetSheetRow(name, cellRef, &row))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func validSheets() map[string][][]interface{} {
	header := []interface{}{"month", "entity", "account_category", "amount", "currency"}
	return map[string][][]interface{}{
		"actuals": {
			header,
			{"2025-06", "ParentCo", "Revenue", 100000, "USD"},
			{"2025-06", "ParentCo", "COGS", 40000, "USD"},
			{"2025-06", "ParentCo", "Opex:Marketing", 20000, "USD"},
			{"2025-05", "ParentCo", "Revenue", 90000, "USD"},
		},
		"budget": {
			header,
			{"2025-06", "ParentCo", "Revenue", 80000, "USD"},
		},
		"cash": {
			{"month", "entity", "cash_usd"},
			{"2025-05", "Consolidated", 650000},
			{"2025-06", "Consolidated", 600000},
		},
		"fx": {
			{"month", "currency", "rate_to_usd"},
			{"2025-06", "EUR", 1.085},
		},
	}
}

// multipartUpload builds a multipart body with the xlsx bytes under "file".
func multipartUpload(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()

	body, contentType := multipartUpload(t, "fy25.xlsx", buildXLSX(t, validSheets()))
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func ask(t *testing.T, h http.Handler, sessionID, question string) (*httptest.ResponseRecorder, *models.Answer) {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"question": question})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+sessionID+"/ask", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var answer models.Answer
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))
	}
	return rec, &answer
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(0), resp["sessions"])
}

func TestFormatReference(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/reference/format", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, sheet := range []string{"actuals", "budget", "cash", "fx"} {
		assert.Contains(t, body, sheet)
	}
	assert.Contains(t, body, "account_category")
	assert.Contains(t, body, "cash_usd")
	assert.Contains(t, body, "rate_to_usd")
}

func TestSessionCreate(t *testing.T) {
	h := newTestServer(t).Handler()

	body, contentType := multipartUpload(t, "fy25.xlsx", buildXLSX(t, validSheets()))
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "fy25.xlsx", resp.Workbook.Filename)
	assert.Equal(t, 4, resp.Workbook.Records)
	assert.Equal(t, "2025-05", resp.Workbook.EarliestMonth)
	assert.Equal(t, "2025-06", resp.Workbook.LatestMonth)
}

func TestSessionCreate_MissingSheets(t *testing.T) {
	h := newTestServer(t).Handler()

	sheets := validSheets()
	delete(sheets, "budget")
	delete(sheets, "fx")

	body, contentType := multipartUpload(t, "partial.xlsx", buildXLSX(t, sheets))
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp uploadErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "missing_sheets", resp.Code)
	assert.Equal(t, []string{"budget", "fx"}, resp.Sheets)
}

func TestSessionCreate_MissingColumn(t *testing.T) {
	h := newTestServer(t).Handler()

	sheets := validSheets()
	sheets["cash"] = [][]interface{}{
		{"month", "entity"},
		{"2025-06", "Consolidated"},
	}

	body, contentType := multipartUpload(t, "badcols.xlsx", buildXLSX(t, sheets))
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp uploadErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "missing_column", resp.Code)
	assert.Equal(t, "cash", resp.Sheet)
	assert.Equal(t, "cash_usd", resp.Column)
}

func TestSessionCreate_RejectsNonXLSX(t *testing.T) {
	h := newTestServer(t).Handler()

	body, contentType := multipartUpload(t, "data.csv", []byte("month,entity\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "bad_upload")
}

func TestSessionCreate_MissingFileField(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader("not multipart"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionGet(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.SessionID)
	assert.Equal(t, "fy25.xlsx", resp.Workbook.Filename)
}

func TestSessionGet_NotFound(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_not_found")
}

func TestSessionReplace(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h)

	sheets := validSheets()
	sheets["actuals"] = [][]interface{}{
		{"month", "entity", "account_category", "amount", "currency"},
		{"2025-07", "ParentCo", "Revenue", 120000, "USD"},
	}

	body, contentType := multipartUpload(t, "fy25-v2.xlsx", buildXLSX(t, sheets))
	req := httptest.NewRequest(http.MethodPut, "/api/sessions/"+id, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.SessionID)
	assert.Equal(t, "fy25-v2.xlsx", resp.Workbook.Filename)

	// The replacement workbook answers, not the original.
	rec2, answer := ask(t, h, id, "What was revenue in July 2025?")
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, "Revenue for 2025-07: $120,000", answer.Text)
}

func TestSessionDelete(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h)

	req := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAsk_Revenue(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h)

	rec, answer := ask(t, h, id, "What was revenue in June 2025?")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Revenue for 2025-06: $100,000", answer.Text)
	assert.Nil(t, answer.Chart)
}

func TestAsk_BudgetComparisonWithChart(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h)

	rec, answer := ask(t, h, id, "Revenue vs budget for June 2025")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, answer.Text, "Revenue vs Budget for 2025-06")
	assert.Contains(t, answer.Text, "Actual: $100,000")
	assert.Contains(t, answer.Text, "Budget: $80,000")
	require.NotNil(t, answer.Chart)
	assert.Equal(t, models.ChartTypeBar, answer.Chart.Type)
}

func TestAsk_MonthNotUnderstood(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h)

	rec, answer := ask(t, h, id, "What was revenue last month?")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, query.MsgMonthNotUnderstood, answer.Text)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h)

	rec, _ := ask(t, h, id, "   ")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a question!")
}

func TestAsk_SessionNotFound(t *testing.T) {
	h := newTestServer(t).Handler()

	rec, _ := ask(t, h, "missing", "What was revenue in June 2025?")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAsk_MethodNotAllowed(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+id+"/ask", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAsk_SessionSurvivesQuestions(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h)

	questions := []string{
		"garbage with no month or topic at all",
		"What was revenue in 2019-03?",
		"Show me EBITDA for June 2025",
	}
	for _, q := range questions {
		rec, _ := ask(t, h, id, q)
		require.Equal(t, http.StatusOK, rec.Code, q)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChartEndpoint(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h)

	_, answer := ask(t, h, id, "Revenue vs budget for June 2025")
	require.NotNil(t, answer.Chart)

	payload, err := json.Marshal(answer.Chart)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/chart", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	png, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestChartEndpoint_BadSpec(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h)

	payload, err := json.Marshal(models.ChartSpec{Type: "sparkline", Title: "x"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/chart", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "chart_render_failed")
}

func TestCORSHeaders(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
