// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"

	repository "github.com/grantwire/gavel/internal/adapters/repository"
	"github.com/grantwire/gavel/internal/domain/model"
	"github.com/grantwire/gavel/pkg/logger"
)

// Service fronts the grant store for the HTTP layer. It owns no state of its
// own beyond the store handle; every read re-queries the store.
type Service struct {
	store repository.Store

	started bool

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the backing grant store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a new Service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start verifies the store is reachable. The service stays up even when the
// database is down at boot; requests surface the failure per-call.
func (s *Service) Start(ctx context.Context) error {
	if s.store == nil {
		return errors.New("service requires a store")
	}
	if err := s.store.Ping(ctx); err != nil {
		if s.log != nil {
			s.log.Warn(ctx, "database unreachable at startup", logger.Error(err))
		}
	}
	s.started = true
	return nil
}

// Stop releases the store's connections.
func (s *Service) Stop() {
	if s.store != nil {
		s.store.Close()
	}
	s.started = false
}

// ListGrants returns all grants with creator names, newest first.
func (s *Service) ListGrants(ctx context.Context) ([]model.Grant, error) {
	return s.store.ListGrants(ctx)
}

// GetGrant returns one grant by id.
func (s *Service) GetGrant(ctx context.Context, id int64) (model.Grant, error) {
	return s.store.GetGrant(ctx, id)
}

// ListGrantBids returns a grant's bids, newest first.
func (s *Service) ListGrantBids(ctx context.Context, grantID int64) ([]model.Bid, error) {
	return s.store.ListGrantBids(ctx, grantID)
}

// ListOrganizations returns all organizations by name.
func (s *Service) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	return s.store.ListOrganizations(ctx)
}

// ListBids returns all bids with grant and organization names, newest first.
func (s *Service) ListBids(ctx context.Context) ([]model.Bid, error) {
	return s.store.ListBids(ctx)
}

// CreateBid inserts a bid and returns the stored row.
func (s *Service) CreateBid(ctx context.Context, bid model.NewBid) (model.Bid, error) {
	return s.store.CreateBid(ctx, bid)
}
