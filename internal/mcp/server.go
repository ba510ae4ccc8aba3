package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
)

// Server exposes the bridge API as MCP tools
type Server struct {
	server *mcp.Server
	client *Client
}

// NewServer creates a new MCP server backed by the bridge API
func NewServer(client *Client, version string) *Server {
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "radar-diario",
			Version: version,
		}, nil),
		client: client,
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the client disconnects
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "radar_parse_demand",
		Description: "Parse a demand message into priority, status, project, deadline and summary without storing it.",
	}, s.handleParseDemand)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "radar_list_demands",
		Description: "List stored demands. Filters: open, today, no_deadline, waiting, upcoming, overdue, received_today.",
	}, s.handleListDemands)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "radar_list_clients",
		Description: "List registered clients and projects, optionally for one category (Interno, Externo, Governo).",
	}, s.handleListClients)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "radar_digest",
		Description: "Build the daily digest: new demands today, demands without deadline, waiting on third parties and upcoming deadlines.",
	}, s.handleDigest)
}

// ParseDemandInput is the input for radar_parse_demand
type ParseDemandInput struct {
	Text string `json:"text" jsonschema:"the demand message text"`
}

// ParseDemandOutput is the output for radar_parse_demand
type ParseDemandOutput struct {
	Record domain.ParsedRecord `json:"record"`
}

func (s *Server) handleParseDemand(ctx context.Context, req *mcp.CallToolRequest, input ParseDemandInput) (*mcp.CallToolResult, ParseDemandOutput, error) {
	if input.Text == "" {
		return nil, ParseDemandOutput{}, fmt.Errorf("text is required")
	}
	rec, err := s.client.ParseDemand(ctx, input.Text)
	if err != nil {
		return nil, ParseDemandOutput{}, err
	}
	return nil, ParseDemandOutput{Record: *rec}, nil
}

// ListDemandsInput is the input for radar_list_demands
type ListDemandsInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"demand filter, defaults to open"`
}

// DemandItem is one stored demand as returned to MCP clients
type DemandItem struct {
	MessageID       string `json:"message_id"`
	Sender          string `json:"sender"`
	ReceivedAt      string `json:"received_at"`
	Summary         string `json:"summary"`
	Priority        string `json:"priority"`
	Status          string `json:"status"`
	Project         string `json:"project"`
	DeadlineISO     string `json:"deadline_iso"`
	DeadlineDisplay string `json:"deadline_display"`
}

// ListDemandsOutput is the output for radar_list_demands
type ListDemandsOutput struct {
	Filter  string       `json:"filter"`
	Count   int          `json:"count"`
	Demands []DemandItem `json:"demands"`
}

func toItems(demands []domain.Demand) []DemandItem {
	items := make([]DemandItem, 0, len(demands))
	for _, d := range demands {
		item := DemandItem{
			MessageID:       d.MessageID,
			Sender:          d.Sender,
			Summary:         d.Record.Summary,
			Priority:        string(d.Record.Priority),
			Status:          string(d.Record.Status),
			Project:         d.Record.Project,
			DeadlineISO:     d.Record.DeadlineISO,
			DeadlineDisplay: d.Record.DeadlineDisplay,
		}
		if !d.ReceivedAt.IsZero() {
			item.ReceivedAt = d.ReceivedAt.Format(time.RFC3339)
		}
		items = append(items, item)
	}
	return items
}

func (s *Server) handleListDemands(ctx context.Context, req *mcp.CallToolRequest, input ListDemandsInput) (*mcp.CallToolResult, ListDemandsOutput, error) {
	list, err := s.client.ListDemands(ctx, input.Filter)
	if err != nil {
		return nil, ListDemandsOutput{}, err
	}
	return nil, ListDemandsOutput{Filter: list.Filter, Count: list.Count, Demands: toItems(list.Demands)}, nil
}

// ListClientsInput is the input for radar_list_clients
type ListClientsInput struct {
	Category string `json:"category,omitempty" jsonschema:"optional category: Interno, Externo or Governo"`
}

// ListClientsOutput is the output for radar_list_clients
type ListClientsOutput struct {
	Clients []domain.ProjectEntry `json:"clients"`
}

func (s *Server) handleListClients(ctx context.Context, req *mcp.CallToolRequest, input ListClientsInput) (*mcp.CallToolResult, ListClientsOutput, error) {
	clients, err := s.client.ListClients(ctx, input.Category)
	if err != nil {
		return nil, ListClientsOutput{}, err
	}
	if clients == nil {
		clients = []domain.ProjectEntry{}
	}
	return nil, ListClientsOutput{Clients: clients}, nil
}

// DigestInput is the input for radar_digest
type DigestInput struct{}

// DigestOutput is the output for radar_digest
type DigestOutput struct {
	Date            string       `json:"date"`
	NewToday        int          `json:"new_today"`
	WithoutDeadline int          `json:"without_deadline"`
	Waiting         int          `json:"waiting"`
	Upcoming        []DemandItem `json:"upcoming"`
}

func (s *Server) handleDigest(ctx context.Context, req *mcp.CallToolRequest, input DigestInput) (*mcp.CallToolResult, DigestOutput, error) {
	report, err := s.client.Digest(ctx)
	if err != nil {
		return nil, DigestOutput{}, err
	}
	out := DigestOutput{
		Date:            report.Date,
		NewToday:        report.NewToday,
		WithoutDeadline: report.WithoutDeadline,
		Waiting:         report.Waiting,
		Upcoming:        toItems(report.Upcoming),
	}
	// The rendered text is what a chat user would see
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: report.Text}},
	}, out, nil
}
