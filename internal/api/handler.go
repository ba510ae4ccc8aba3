package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
	"github.com/radardiario/radar-bridge/internal/biz/parser"
	"github.com/radardiario/radar-bridge/internal/biz/usecase"
	"github.com/radardiario/radar-bridge/internal/service"
)

// Server provides a local HTTP API over the parser and the demand store
type Server struct {
	intakeUC *usecase.IntakeUsecase
	queryUC  *usecase.QueryUsecase
	digestUC *usecase.DigestUsecase
	registry *parser.Registry

	server *http.Server
	port   int
}

// ParseRequest is the body of POST /api/parse
type ParseRequest struct {
	Text string `json:"text"`
}

// DemandsResponse is returned by GET /api/demands
type DemandsResponse struct {
	Filter  string          `json:"filter"`
	Count   int             `json:"count"`
	Demands []domain.Demand `json:"demands"`
}

// ClientsResponse is returned by GET /api/clients
type ClientsResponse struct {
	Clients []domain.ProjectEntry `json:"clients"`
}

// DigestResponse is returned by GET /api/digest
type DigestResponse struct {
	Date            string          `json:"date"`
	NewToday        int             `json:"new_today"`
	WithoutDeadline int             `json:"without_deadline"`
	Waiting         int             `json:"waiting"`
	Upcoming        []domain.Demand `json:"upcoming"`
	Text            string          `json:"text"`
}

// NewServer creates a new API server
func NewServer(
	intakeUC *usecase.IntakeUsecase,
	queryUC *usecase.QueryUsecase,
	digestUC *usecase.DigestUsecase,
	registry *parser.Registry,
	port int,
) *Server {
	return &Server{
		intakeUC: intakeUC,
		queryUC:  queryUC,
		digestUC: digestUC,
		registry: registry,
		port:     port,
	}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/parse", s.handleParse)
	mux.HandleFunc("/api/demands", s.handleDemands)
	mux.HandleFunc("/api/clients", s.handleClients)
	mux.HandleFunc("/api/digest", s.handleDigest)

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler: s.Handler(),
	}

	fmt.Printf("[API] Starting HTTP server on port %d\n", s.port)
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Shutdown(context.Background())
	}
	return nil
}

// GetPort returns the server port
func (s *Server) GetPort() int {
	return s.port
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	rec := s.intakeUC.Preview(req.Text)
	s.writeJSON(w, rec)
}

func (s *Server) handleDemands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("filter")
	if name == "" {
		name = string(usecase.FilterOpen)
	}
	filter, err := usecase.ParseDemandFilter(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	demands, err := s.queryUC.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if demands == nil {
		demands = []domain.Demand{}
	}

	s.writeJSON(w, DemandsResponse{Filter: string(filter), Count: len(demands), Demands: demands})
}

func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clients := s.registry.All()
	if category := r.URL.Query().Get("category"); category != "" {
		c := domain.ProjectCategory(category)
		if !c.IsValid() {
			http.Error(w, fmt.Sprintf("unknown category: %s", category), http.StatusBadRequest)
			return
		}
		clients = s.registry.ListByCategory(c)
	}
	if clients == nil {
		clients = []domain.ProjectEntry{}
	}

	s.writeJSON(w, ClientsResponse{Clients: clients})
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	d, err := s.digestUC.Build(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	upcoming := d.Upcoming
	if upcoming == nil {
		upcoming = []domain.Demand{}
	}

	s.writeJSON(w, DigestResponse{
		Date:            d.Date.Format(domain.ISODateLayout),
		NewToday:        d.NewToday,
		WithoutDeadline: d.WithoutDeadline,
		Waiting:         d.Waiting,
		Upcoming:        upcoming,
		Text:            service.RenderDigest(d),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
