package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
)

// newFakeBridge serves canned bridge API responses
func newFakeBridge(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/parse":
			body, _ := io.ReadAll(r.Body)
			var req map[string]string
			json.Unmarshal(body, &req)
			json.NewEncoder(w).Encode(domain.ParsedRecord{
				Priority:     domain.PriorityHigh,
				Status:       domain.StatusBacklog,
				Summary:      "Enviar relatório",
				OriginalText: req["text"],
			})
		case "/api/demands":
			if r.URL.Query().Get("filter") == "bogus" {
				http.Error(w, "unknown filter: bogus", http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"filter": r.URL.Query().Get("filter"),
				"count":  1,
				"demands": []domain.Demand{{
					MessageID:  "om_1",
					ReceivedAt: time.Date(2025, 9, 28, 10, 0, 0, 0, time.UTC),
					Record:     domain.ParsedRecord{Summary: "Revisar minuta", Status: domain.StatusWaiting},
				}},
			})
		case "/api/clients":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"clients": []domain.ProjectEntry{{Name: "UGF", Category: domain.CategoryInternal}},
			})
		case "/api/digest":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"date":      "2025-09-28",
				"new_today": 2,
				"upcoming":  []domain.Demand{},
				"text":      "📡 **Radar Diário — 28-09**",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestHandleParseDemand(t *testing.T) {
	s := NewServer(NewClient(newFakeBridge(t).URL), "test")

	_, out, err := s.handleParseDemand(context.Background(), nil, ParseDemandInput{Text: "#urgente enviar relatório"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Record.Priority != domain.PriorityHigh {
		t.Errorf("Expected priority Alta, got %s", out.Record.Priority)
	}
	if out.Record.OriginalText != "#urgente enviar relatório" {
		t.Errorf("Expected text to be forwarded, got %q", out.Record.OriginalText)
	}

	if _, _, err := s.handleParseDemand(context.Background(), nil, ParseDemandInput{}); err == nil {
		t.Error("Expected error for empty text")
	}
}

func TestHandleListDemands(t *testing.T) {
	s := NewServer(NewClient(newFakeBridge(t).URL), "test")

	_, out, err := s.handleListDemands(context.Background(), nil, ListDemandsInput{Filter: "waiting"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Filter != "waiting" || out.Count != 1 {
		t.Errorf("Unexpected output: %+v", out)
	}
	item := out.Demands[0]
	if item.MessageID != "om_1" || item.Status != "Aguardando terceiros" {
		t.Errorf("Unexpected item: %+v", item)
	}
	if item.ReceivedAt != "2025-09-28T10:00:00Z" {
		t.Errorf("Expected RFC3339 timestamp, got %q", item.ReceivedAt)
	}
}

func TestHandleListDemands_BridgeError(t *testing.T) {
	s := NewServer(NewClient(newFakeBridge(t).URL), "test")

	_, _, err := s.handleListDemands(context.Background(), nil, ListDemandsInput{Filter: "bogus"})
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "HTTP 400") || !strings.Contains(err.Error(), "unknown filter") {
		t.Errorf("Expected bridge error to be surfaced, got %v", err)
	}
}

func TestHandleListClients(t *testing.T) {
	s := NewServer(NewClient(newFakeBridge(t).URL), "test")

	_, out, err := s.handleListClients(context.Background(), nil, ListClientsInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(out.Clients) != 1 || out.Clients[0].Name != "UGF" {
		t.Errorf("Unexpected clients: %+v", out.Clients)
	}
}

func TestHandleDigest(t *testing.T) {
	s := NewServer(NewClient(newFakeBridge(t).URL), "test")

	result, out, err := s.handleDigest(context.Background(), nil, DigestInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.NewToday != 2 || out.Date != "2025-09-28" {
		t.Errorf("Unexpected digest: %+v", out)
	}
	if len(result.Content) != 1 {
		t.Fatalf("Expected 1 content block, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok || !strings.HasPrefix(text.Text, "📡") {
		t.Errorf("Expected rendered digest text, got %+v", result.Content[0])
	}
}

func TestClient_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	if _, err := client.Digest(context.Background()); err == nil {
		t.Error("Expected error for unreachable bridge")
	}
}
