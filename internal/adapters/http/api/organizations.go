// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/grantwire/gavel/internal/domain/model"
	"github.com/grantwire/gavel/pkg/logger"
)

// OrganizationsHandler handles organization listing requests.
type OrganizationsHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewOrganizationsHandler creates a new organizations handler.
func NewOrganizationsHandler(deps Dependencies, log logger.Logger) *OrganizationsHandler {
	return &OrganizationsHandler{deps: deps, log: log}
}

// HandleList handles GET /organizations requests, ordered by name ascending.
func (h *OrganizationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusNotFound, msgEndpointNotFound)
		return
	}
	orgs, err := h.deps.ListOrganizations(r.Context())
	if err != nil {
		if h.log != nil {
			h.log.Error(r.Context(), "list organizations failed", logger.String("path", r.URL.Path), logger.Error(err))
		}
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if orgs == nil {
		orgs = []model.Organization{}
	}
	writeJSON(w, http.StatusOK, orgs)
}
