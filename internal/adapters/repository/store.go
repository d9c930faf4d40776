// Package repository defines the grant store interface and errors.
package repository

import (
	"context"

	"github.com/grantwire/gavel/internal/domain/model"
)

// Store provides read access to grants and organizations and the single
// mutation this service performs, bid creation. Every call issues exactly one
// parameterized statement; no state is shared across calls.
type Store interface {
	// ListGrants returns all grants joined with their creator's name,
	// ordered by creation time descending.
	ListGrants(ctx context.Context) ([]model.Grant, error)

	// GetGrant returns one grant by id joined with its creator's name.
	// Returns ErrNotFound if the grant is unknown.
	GetGrant(ctx context.Context, id int64) (model.Grant, error)

	// ListGrantBids returns a grant's bids joined with the bidding
	// organization's name, ordered by submission time descending.
	ListGrantBids(ctx context.Context, grantID int64) ([]model.Bid, error)

	// ListOrganizations returns all organizations ordered by name ascending.
	ListOrganizations(ctx context.Context) ([]model.Organization, error)

	// ListBids returns all bids joined with grant title and organization
	// name, ordered by submission time descending.
	ListBids(ctx context.Context) ([]model.Bid, error)

	// CreateBid inserts a bid and returns the stored row, including the
	// server-assigned id and submission timestamp. Returns ErrDuplicateBid
	// when the (grant, organization) pair already has a bid, ErrIntegrity
	// on other constraint failures.
	CreateBid(ctx context.Context, bid model.NewBid) (model.Bid, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close releases the underlying connections.
	Close()
}
