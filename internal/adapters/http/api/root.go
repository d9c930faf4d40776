// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// Service descriptor served on GET /.
const (
	serviceName    = "Grant Bidding API"
	serviceVersion = "1.0"
)

type serviceDescriptor struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// RootHandler serves the service descriptor and catches unknown endpoints.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot handles GET / and every path no other route claimed.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		writeError(w, http.StatusNotFound, msgEndpointNotFound)
		return
	}
	writeJSON(w, http.StatusOK, serviceDescriptor{Message: serviceName, Version: serviceVersion})
}
