package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
	"github.com/radardiario/radar-bridge/internal/biz/parser"
	"github.com/radardiario/radar-bridge/internal/biz/usecase"
)

// MockDemandRepo implements repo.DemandRepo for testing
type MockDemandRepo struct {
	demands []domain.Demand
	err     error
}

func (m *MockDemandRepo) Exists(ctx context.Context, messageID string) (bool, error) {
	return false, m.err
}

func (m *MockDemandRepo) Append(ctx context.Context, demand *domain.Demand) error {
	m.demands = append(m.demands, *demand)
	return m.err
}

func (m *MockDemandRepo) List(ctx context.Context) ([]domain.Demand, error) {
	return m.demands, m.err
}

func (m *MockDemandRepo) Ping(ctx context.Context) error {
	return m.err
}

var brt = time.FixedZone("BRT", -3*60*60)

func newTestServer(t *testing.T, repo *MockDemandRepo) *Server {
	t.Helper()
	registry, err := parser.NewRegistry(parser.DefaultProjects())
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}
	now := func() time.Time { return time.Date(2025, 9, 28, 10, 0, 0, 0, brt) }

	intake := usecase.NewIntakeUsecase(parser.New(registry, brt, parser.WithoutFallback()), repo, nil)
	intake.SetClock(now)
	query := usecase.NewQueryUsecase(repo, brt)
	query.SetClock(now)

	return NewServer(intake, query, usecase.NewDigestUsecase(query), registry, 0)
}

func TestHandleParse(t *testing.T) {
	repo := &MockDemandRepo{}
	server := newTestServer(t, repo)

	body, _ := json.Marshal(ParseRequest{Text: "#urgente enviar relatório amanhã [UGF]"})
	req := httptest.NewRequest(http.MethodPost, "/api/parse", bytes.NewReader(body))
	w := httptest.NewRecorder()

	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var rec domain.ParsedRecord
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if rec.Priority != domain.PriorityHigh {
		t.Errorf("Expected priority Alta, got %s", rec.Priority)
	}
	if rec.Project != "UGF" {
		t.Errorf("Expected project UGF, got %s", rec.Project)
	}
	if rec.DeadlineISO != "2025-09-29" {
		t.Errorf("Expected deadline 2025-09-29, got %s", rec.DeadlineISO)
	}
	if len(repo.demands) != 0 {
		t.Error("Parse must not store anything")
	}
}

func TestHandleParse_Invalid(t *testing.T) {
	server := newTestServer(t, &MockDemandRepo{})

	tests := []struct {
		method string
		body   string
		code   int
	}{
		{http.MethodGet, "", http.StatusMethodNotAllowed},
		{http.MethodPost, "not json", http.StatusBadRequest},
		{http.MethodPost, `{"text":"  "}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/api/parse", strings.NewReader(tt.body))
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, req)
		if w.Code != tt.code {
			t.Errorf("%s %q: expected %d, got %d", tt.method, tt.body, tt.code, w.Code)
		}
	}
}

func TestHandleDemands(t *testing.T) {
	repo := &MockDemandRepo{demands: []domain.Demand{
		{MessageID: "om_1", Record: domain.ParsedRecord{Summary: "a", Status: domain.StatusWaiting}},
		{MessageID: "om_2", Record: domain.ParsedRecord{Summary: "b", Status: domain.StatusDone}},
	}}
	server := newTestServer(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/demands", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	var result DemandsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result.Filter != "open" || result.Count != 1 || result.Demands[0].MessageID != "om_1" {
		t.Errorf("Unexpected response: %+v", result)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/demands?filter=bogus", nil)
	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown filter, got %d", w.Code)
	}
}

func TestHandleDemands_StoreError(t *testing.T) {
	server := newTestServer(t, &MockDemandRepo{err: errors.New("sheet unavailable")})

	req := httptest.NewRequest(http.MethodGet, "/api/demands?filter=waiting", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "sheet unavailable") {
		t.Errorf("Expected error in body, got %s", w.Body.String())
	}
}

func TestHandleClients(t *testing.T) {
	server := newTestServer(t, &MockDemandRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/clients?category=Governo", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	var result ClientsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(result.Clients) != 2 {
		t.Errorf("Expected 2 government clients, got %d", len(result.Clients))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/clients?category=Outro", nil)
	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown category, got %d", w.Code)
	}
}

func TestHandleDigest(t *testing.T) {
	repo := &MockDemandRepo{demands: []domain.Demand{
		{MessageID: "om_1", Record: domain.ParsedRecord{Summary: "a", DeadlineISO: "2025-09-30", DeadlineDisplay: "30-09-2025"}},
	}}
	server := newTestServer(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/digest", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	var result DigestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result.Date != "2025-09-28" {
		t.Errorf("Expected date 2025-09-28, got %s", result.Date)
	}
	if len(result.Upcoming) != 1 {
		t.Errorf("Expected 1 upcoming demand, got %d", len(result.Upcoming))
	}
	if !strings.Contains(result.Text, "🔸 30-09 | a | ") {
		t.Errorf("Expected rendered digest, got:\n%s", result.Text)
	}
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, &MockDemandRepo{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("Unexpected health response: %d %s", w.Code, w.Body.String())
	}
}
