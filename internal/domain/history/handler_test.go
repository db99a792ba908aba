package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler(statusIDs ...string) *Handler {
	repo := newMockRepo()
	cat := newMockCatalog(statusIDs...)
	svc := NewService(repo, cat)
	svc.SetClock(fixedClock{today: day(2026, time.March, 15)})
	return NewHandler(svc, NewResolver(repo, cat))
}

func doRequest(h *Handler, method, path, body string) *httptest.ResponseRecorder {
	e := echo.New()
	api := e.Group("/api")
	h.RegisterRoutes(api)

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandlerAppend(t *testing.T) {
	h := newTestHandler("caries")
	patient := uuid.New()

	rec := doRequest(h, http.MethodPost,
		"/api/patients/"+patient.String()+"/teeth/21/history",
		`{"source":"doctor_diagnosed","status":"caries","description":"mesial"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var stream Stream
	if err := json.Unmarshal(rec.Body.Bytes(), &stream); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stream.CurrentStatus() != "caries" {
		t.Errorf("unexpected stream: %+v", stream)
	}
}

func TestHandlerAppend_UnknownStatus(t *testing.T) {
	h := newTestHandler()
	rec := doRequest(h, http.MethodPost,
		"/api/patients/"+uuid.New().String()+"/teeth/21/history",
		`{"source":"doctor_diagnosed","status":"bogus"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestHandlerAppend_InvalidTooth(t *testing.T) {
	h := newTestHandler("caries")
	rec := doRequest(h, http.MethodPost,
		"/api/patients/"+uuid.New().String()+"/teeth/99/history",
		`{"source":"doctor_diagnosed","status":"caries"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandlerRead_MissingStream(t *testing.T) {
	h := newTestHandler()
	rec := doRequest(h, http.MethodGet,
		"/api/patients/"+uuid.New().String()+"/teeth/21/history?source=doctor_diagnosed", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandlerRollback(t *testing.T) {
	h := newTestHandler("pain")
	patient := uuid.New()
	if _, err := h.svc.Append(context.Background(), patient, 21, "patient_reported", "pain", "", time.Time{}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doRequest(h, http.MethodDelete,
		"/api/patients/"+patient.String()+"/teeth/21/history/last?source=patient_reported", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]bool
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp["removed"] {
		t.Error("expected removed=true")
	}
}

func TestHandlerMouthSummary(t *testing.T) {
	h := newTestHandler()
	rec := doRequest(h, http.MethodGet,
		"/api/patients/"+uuid.New().String()+"/mouth-summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var summary []*ToothState
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(summary) != 32 {
		t.Errorf("expected 32 teeth, got %d", len(summary))
	}
}

func TestHandlerStatistics_BadPatientID(t *testing.T) {
	h := newTestHandler()
	rec := doRequest(h, http.MethodGet, "/api/history/statistics?patient_id=nope", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
