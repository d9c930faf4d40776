// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/grantwire/gavel/internal/domain/model"
	"github.com/grantwire/gavel/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ListGrants(ctx context.Context) ([]model.Grant, error)
	GetGrant(ctx context.Context, id int64) (model.Grant, error)
	ListGrantBids(ctx context.Context, grantID int64) ([]model.Bid, error)
	ListOrganizations(ctx context.Context) ([]model.Organization, error)
	ListBids(ctx context.Context) ([]model.Bid, error)
	CreateBid(ctx context.Context, bid model.NewBid) (model.Bid, error)
}

// Client-visible error messages. These are part of the external contract and
// must not leak internal detail.
const (
	msgEndpointNotFound = "Endpoint not found"
	msgInvalidGrants    = "Invalid grants endpoint"
	msgInvalidID        = "Invalid ID format"
	msgGrantNotFound    = "Grant not found"
	msgInvalidJSON      = "Invalid JSON data"
	msgMissingFields    = "Missing required fields"
	msgDuplicateBid     = "Organization has already submitted a bid for this grant"
	msgIntegrity        = "Data integrity error"
	msgCreateFailed     = "Failed to create bid"
	msgInternalError    = "Internal server error"
)

// Server wires HTTP routes for the grant bidding API.
type Server struct {
	rootHandler          *RootHandler
	grantsHandler        *GrantsHandler
	organizationsHandler *OrganizationsHandler
	bidsHandler          *BidsHandler
	healthHandler        *HealthHandler

	log logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	return &Server{
		rootHandler:          NewRootHandler(),
		grantsHandler:        NewGrantsHandler(deps, log),
		organizationsHandler: NewOrganizationsHandler(deps, log),
		bidsHandler:          NewBidsHandler(deps, log),
		healthHandler:        NewHealthHandler(),
		log:                  log,
	}
}

// Register attaches all HTTP routes to mux. The bare "/" route doubles as the
// catch-all for unknown endpoints.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/grants", s.wrap(s.grantsHandler.HandleList, "grants"))
	mux.HandleFunc("/grants/", s.wrap(s.grantsHandler.HandleSubtree, "grants"))
	mux.HandleFunc("/organizations", s.wrap(s.organizationsHandler.HandleList, "organizations"))
	mux.HandleFunc("/organizations/", s.wrap(s.organizationsHandler.HandleList, "organizations"))
	mux.HandleFunc("/bids", s.wrap(s.bidsHandler.HandleBids, "bids"))
	mux.HandleFunc("/bids/", s.wrap(s.bidsHandler.HandleSubtree, "bids"))
	mux.HandleFunc("/", s.wrap(s.rootHandler.HandleRoot, "root"))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// splitPath returns the non-empty slash-delimited segments of a request path.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
