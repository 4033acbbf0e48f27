package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/common"
	"github.com/ternarybob/motif/internal/models"
	"github.com/ternarybob/motif/internal/storage/memory"
)

func newResultHandler(t *testing.T) *ResultHandler {
	t.Helper()
	logger := arbor.NewLogger()
	results := memory.NewResultStorage(&common.RegistryConfig{ResultIdleAge: 10 * time.Minute}, logger)
	return NewResultHandler(results, logger)
}

func getResult(t *testing.T, h *ResultHandler, requestID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/result?requestId="+requestID, nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestResultStoreAndRecover(t *testing.T) {
	h := newResultHandler(t)

	body := `{"requestId":"req_1","status":"completed","result":{"html":"<div></div>","css":"div{}","js":"//"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/result", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("store status = %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = getResult(t, h, "req_1")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	var outcome models.Outcome
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatal(err)
	}
	if outcome.Status != models.JobStatusCompleted || outcome.Result == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	// Delivered once: the second read reports pending again.
	rec = getResult(t, h, "req_1")
	if rec.Code != http.StatusOK {
		t.Fatalf("second get status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pending") {
		t.Errorf("second read body = %s, want pending", rec.Body.String())
	}
}

func TestResultAbsentReportsPending(t *testing.T) {
	h := newResultHandler(t)

	rec := getResult(t, h, "req_never_seen")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pending") {
		t.Errorf("body = %s, want pending", rec.Body.String())
	}
}

func TestResultMissingRequestID(t *testing.T) {
	h := newResultHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/result", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("get status = %d, want 400", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/result", strings.NewReader(`{"status":"completed"}`))
	rec = httptest.NewRecorder()
	h.Handle(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("post status = %d, want 400", rec.Code)
	}
}

func TestResultMethodNotAllowed(t *testing.T) {
	h := newResultHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/result?requestId=req_1", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
