// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strconv"

	repository "github.com/grantwire/gavel/internal/adapters/repository"
	"github.com/grantwire/gavel/internal/domain/model"
	"github.com/grantwire/gavel/pkg/logger"
)

// GrantsHandler handles grant listing and lookup requests.
type GrantsHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewGrantsHandler creates a new grants handler.
func NewGrantsHandler(deps Dependencies, log logger.Logger) *GrantsHandler {
	return &GrantsHandler{deps: deps, log: log}
}

// HandleList handles GET /grants requests.
func (h *GrantsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusNotFound, msgEndpointNotFound)
		return
	}
	grants, err := h.deps.ListGrants(r.Context())
	if err != nil {
		h.logError(r, "list grants failed", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if grants == nil {
		grants = []model.Grant{}
	}
	writeJSON(w, http.StatusOK, grants)
}

// HandleSubtree handles GET /grants/{id} and GET /grants/{id}/bids requests.
// The id segment must parse as an integer; the third segment, when present,
// must be exactly "bids".
func (h *GrantsHandler) HandleSubtree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusNotFound, msgEndpointNotFound)
		return
	}

	segments := splitPath(r.URL.Path)
	switch {
	case len(segments) == 1:
		// Trailing slash on the collection.
		h.HandleList(w, r)
	case len(segments) == 2:
		id, ok := parseID(segments[1])
		if !ok {
			writeError(w, http.StatusBadRequest, msgInvalidID)
			return
		}
		h.getGrant(w, r, id)
	case len(segments) == 3 && segments[2] == "bids":
		id, ok := parseID(segments[1])
		if !ok {
			writeError(w, http.StatusBadRequest, msgInvalidID)
			return
		}
		h.listGrantBids(w, r, id)
	default:
		writeError(w, http.StatusNotFound, msgInvalidGrants)
	}
}

func (h *GrantsHandler) getGrant(w http.ResponseWriter, r *http.Request, id int64) {
	grant, err := h.deps.GetGrant(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgGrantNotFound)
			return
		}
		h.logError(r, "get grant failed", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	writeJSON(w, http.StatusOK, grant)
}

func (h *GrantsHandler) listGrantBids(w http.ResponseWriter, r *http.Request, id int64) {
	bids, err := h.deps.ListGrantBids(r.Context(), id)
	if err != nil {
		h.logError(r, "list grant bids failed", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if bids == nil {
		bids = []model.Bid{}
	}
	writeJSON(w, http.StatusOK, bids)
}

func (h *GrantsHandler) logError(r *http.Request, msg string, err error) {
	if h.log != nil {
		h.log.Error(r.Context(), msg, logger.String("path", r.URL.Path), logger.Error(err))
	}
}

// parseID parses an id path segment as a base-10 integer.
func parseID(segment string) (int64, bool) {
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
