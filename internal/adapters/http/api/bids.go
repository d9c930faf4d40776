// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	repository "github.com/grantwire/gavel/internal/adapters/repository"
	"github.com/grantwire/gavel/internal/domain/model"
	"github.com/grantwire/gavel/pkg/logger"
	"github.com/grantwire/gavel/pkg/metrics"
)

// BidsHandler handles bid listing and creation requests.
type BidsHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewBidsHandler creates a new bids handler.
func NewBidsHandler(deps Dependencies, log logger.Logger) *BidsHandler {
	return &BidsHandler{deps: deps, log: log}
}

// HandleBids handles GET /bids and POST /bids requests.
func (h *BidsHandler) HandleBids(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, http.StatusNotFound, msgEndpointNotFound)
	}
}

// HandleSubtree handles requests below /bids/. Bid creation tolerates extra
// path segments; reads do not.
func (h *BidsHandler) HandleSubtree(w http.ResponseWriter, r *http.Request) {
	if len(splitPath(r.URL.Path)) == 1 {
		h.HandleBids(w, r)
		return
	}
	if r.Method == http.MethodPost {
		h.create(w, r)
		return
	}
	writeError(w, http.StatusNotFound, msgEndpointNotFound)
}

func (h *BidsHandler) list(w http.ResponseWriter, r *http.Request) {
	bids, err := h.deps.ListBids(r.Context())
	if err != nil {
		h.logError(r, "list bids failed", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if bids == nil {
		bids = []model.Bid{}
	}
	writeJSON(w, http.StatusOK, bids)
}

// bidRequest mirrors the POST /bids body. Pointer fields distinguish an
// absent key from a zero value so the presence check stays exact.
type bidRequest struct {
	GrantID         *int64   `json:"grant_id"`
	OrganizationID  *int64   `json:"organization_id"`
	Title           *string  `json:"title"`
	Proposal        *string  `json:"proposal"`
	RequestedAmount *float64 `json:"requested_amount"`
}

func (b bidRequest) validate() error {
	switch {
	case b.GrantID == nil:
		return fmt.Errorf("%w: grant_id", ErrMissingField)
	case b.OrganizationID == nil:
		return fmt.Errorf("%w: organization_id", ErrMissingField)
	case b.Title == nil:
		return fmt.Errorf("%w: title", ErrMissingField)
	case b.Proposal == nil:
		return fmt.Errorf("%w: proposal", ErrMissingField)
	case b.RequestedAmount == nil:
		return fmt.Errorf("%w: requested_amount", ErrMissingField)
	}
	return nil
}

func (b bidRequest) toModel() model.NewBid {
	return model.NewBid{
		GrantID:         *b.GrantID,
		OrganizationID:  *b.OrganizationID,
		Title:           *b.Title,
		Proposal:        *b.Proposal,
		RequestedAmount: *b.RequestedAmount,
	}
}

func (h *BidsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req bidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if h.log != nil {
			h.log.Warn(r.Context(), "bid body rejected", logger.String("path", r.URL.Path), logger.Error(err))
		}
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if err := req.validate(); err != nil {
		if h.log != nil {
			h.log.Warn(r.Context(), "bid body incomplete", logger.String("path", r.URL.Path), logger.Error(err))
		}
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	created, err := h.deps.CreateBid(r.Context(), req.toModel())
	switch {
	case err == nil:
		metrics.RecordBidCreated()
		writeJSON(w, http.StatusCreated, created)
	case errors.Is(err, repository.ErrDuplicateBid):
		metrics.RecordBidConflict()
		writeError(w, http.StatusConflict, msgDuplicateBid)
	case errors.Is(err, repository.ErrIntegrity):
		writeError(w, http.StatusBadRequest, msgIntegrity)
	case errors.Is(err, repository.ErrNoRowReturned):
		h.logError(r, "bid insert returned no row", err)
		writeError(w, http.StatusInternalServerError, msgCreateFailed)
	default:
		h.logError(r, "create bid failed", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
	}
}

func (h *BidsHandler) logError(r *http.Request, msg string, err error) {
	if h.log != nil {
		h.log.Error(r.Context(), msg, logger.String("path", r.URL.Path), logger.Error(err))
	}
}
