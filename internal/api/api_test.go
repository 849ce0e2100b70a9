package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dharun235/FitTrackAI/internal/assistant"
	"github.com/Dharun235/FitTrackAI/internal/store"
)

func newTestHandler(t *testing.T, seed func(s *store.Store)) http.Handler {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if seed != nil {
		seed(s)
	}
	return NewHandler(assistant.New(s))
}

func seedSteps(t *testing.T, s *store.Store, values ...float64) {
	t.Helper()
	if _, err := s.DB().Exec(`CREATE TABLE DailyStepCount ("date" TEXT, total_value REAL)`); err != nil {
		t.Fatalf("creating DailyStepCount: %v", err)
	}
	for i, v := range values {
		date := fmt.Sprintf("2024-01-%02d", i+1)
		if _, err := s.DB().Exec(`INSERT INTO DailyStepCount ("date", total_value) VALUES (?, ?)`, date, v); err != nil {
			t.Fatalf("inserting step row: %v", err)
		}
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header should be set")
	}
}

func TestChat_EmptyMessage(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":""}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChat_InvalidJSON(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{not json`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChat_Analysis(t *testing.T) {
	h := newTestHandler(t, func(s *store.Store) {
		seedSteps(t, s, 4000, 5000, 6000)
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"analyze my steps"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp assistant.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Kind != assistant.KindText {
		t.Errorf("kind = %q, want text", resp.Kind)
	}
	if !strings.Contains(resp.Text, "Step Analysis Report") {
		t.Errorf("text = %q", resp.Text)
	}
}

func TestChat_PlotResponse(t *testing.T) {
	h := newTestHandler(t, func(s *store.Store) {
		seedSteps(t, s, 4000, 5000, 6000)
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"show me my steps"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp assistant.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Kind != assistant.KindPlot {
		t.Errorf("kind = %q, want plot", resp.Kind)
	}
	if resp.Plot == nil || len(resp.Plot.Traces) == 0 {
		t.Errorf("plot = %+v, want traces", resp.Plot)
	}
}

func TestPlot_MissingType(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/plot", strings.NewReader(`{}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPlot_UnknownType(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/plot", strings.NewReader(`{"plot_type":"heatmap"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPlot_DailySteps(t *testing.T) {
	h := newTestHandler(t, func(s *store.Store) {
		seedSteps(t, s, 4000, 5000)
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/plot", strings.NewReader(`{"plot_type":"daily_steps"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp assistant.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Plot == nil || resp.Plot.Type != "daily_steps" {
		t.Errorf("plot = %+v", resp.Plot)
	}
}

// A custom plot naming a column the table doesn't have comes back as a
// structured error, not a chart with an empty value axis.
func TestPlot_CustomUnknownColumn(t *testing.T) {
	h := newTestHandler(t, func(s *store.Store) {
		if _, err := s.DB().Exec(`CREATE TABLE walking_speed ("date" TEXT, avg_value REAL)`); err != nil {
			t.Fatalf("creating walking_speed: %v", err)
		}
		if _, err := s.DB().Exec(`INSERT INTO walking_speed VALUES ('2024-01-01', 1.2), ('2024-01-02', 1.3)`); err != nil {
			t.Fatalf("inserting walking_speed rows: %v", err)
		}
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/plot",
		strings.NewReader(`{"plot_type":"custom","table":"walking_speed","y_column":"nope"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp assistant.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Plot != nil {
		t.Errorf("plot = %+v, want none", resp.Plot)
	}
	if resp.Err == "" || !strings.Contains(resp.Err, "nope") {
		t.Errorf("Err = %q, want it to name the missing column", resp.Err)
	}
}

func TestDataSummary(t *testing.T) {
	h := newTestHandler(t, func(s *store.Store) {
		seedSteps(t, s, 4000, 5000)
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/data_summary", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var sum store.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if sum.TotalTables != 1 {
		t.Errorf("total_tables = %d, want 1", sum.TotalTables)
	}
	if len(sum.Tables) != 1 || sum.Tables[0].RowCount != 2 {
		t.Errorf("tables = %+v", sum.Tables)
	}
}
