package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
)

// Client is the HTTP client for the bridge API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// DemandList is a filtered set of stored demands
type DemandList struct {
	Filter  string          `json:"filter"`
	Count   int             `json:"count"`
	Demands []domain.Demand `json:"demands"`
}

// DigestReport is the daily overview with its rendered text
type DigestReport struct {
	Date            string          `json:"date"`
	NewToday        int             `json:"new_today"`
	WithoutDeadline int             `json:"without_deadline"`
	Waiting         int             `json:"waiting"`
	Upcoming        []domain.Demand `json:"upcoming"`
	Text            string          `json:"text"`
}

// ParseDemand parses text without storing it
func (c *Client) ParseDemand(ctx context.Context, text string) (*domain.ParsedRecord, error) {
	var rec domain.ParsedRecord
	if err := c.post(ctx, "/api/parse", map[string]string{"text": text}, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListDemands lists stored demands matching filter
func (c *Client) ListDemands(ctx context.Context, filter string) (*DemandList, error) {
	path := "/api/demands"
	if filter != "" {
		path += "?filter=" + url.QueryEscape(filter)
	}
	var result DemandList
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListClients lists registered projects, optionally for one category
func (c *Client) ListClients(ctx context.Context, category string) ([]domain.ProjectEntry, error) {
	path := "/api/clients"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var result struct {
		Clients []domain.ProjectEntry `json:"clients"`
	}
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return result.Clients, nil
}

// Digest builds the daily overview
func (c *Client) Digest(ctx context.Context) (*DigestReport, error) {
	var result DigestReport
	if err := c.get(ctx, "/api/digest", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ============ HTTP Helpers ============

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, result)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP %s failed: %w", req.Method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bytes.TrimSpace(body)))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
