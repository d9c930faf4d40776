package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/grantwire/gavel/internal/domain/model"
	"github.com/grantwire/gavel/pkg/metrics"
)

// Querier is the subset of pgxpool.Pool the store depends on. It can be
// substituted in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// SQLSTATE classification. Class 23 covers integrity constraint violations;
// 23505 is the unique-constraint case the bid table relies on.
const (
	codeUniqueViolation = "23505"
	classIntegrity      = "23"
)

const defaultQueryTimeout = 5 * time.Second

// Statement texts. All caller-supplied values travel as positional
// parameters, never interpolated into the text.
const (
	listGrantsSQL = `
		SELECT g.id, g.title, g.description, g.funding_amount,
		       g.application_deadline, g.status, g.created_by, g.created_at,
		       o.name AS created_by_name
		FROM grants g
		LEFT JOIN organizations o ON g.created_by = o.id
		ORDER BY g.created_at DESC`

	getGrantSQL = `
		SELECT g.id, g.title, g.description, g.funding_amount,
		       g.application_deadline, g.status, g.created_by, g.created_at,
		       o.name AS created_by_name
		FROM grants g
		LEFT JOIN organizations o ON g.created_by = o.id
		WHERE g.id = $1`

	listGrantBidsSQL = `
		SELECT b.id, b.grant_id, b.organization_id, b.title, b.proposal,
		       b.requested_amount, b.status, b.submitted_at,
		       o.name AS organization_name
		FROM bids b
		JOIN organizations o ON b.organization_id = o.id
		WHERE b.grant_id = $1
		ORDER BY b.submitted_at DESC`

	listOrganizationsSQL = `
		SELECT id, name
		FROM organizations
		ORDER BY name`

	listBidsSQL = `
		SELECT b.id, b.grant_id, b.organization_id, b.title, b.proposal,
		       b.requested_amount, b.status, b.submitted_at,
		       g.title AS grant_title, o.name AS organization_name
		FROM bids b
		JOIN grants g ON b.grant_id = g.id
		JOIN organizations o ON b.organization_id = o.id
		ORDER BY b.submitted_at DESC`

	createBidSQL = `
		INSERT INTO bids (grant_id, organization_id, title, proposal, requested_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, grant_id, organization_id, title, proposal,
		          requested_amount, status, submitted_at`
)

// Postgres implements Store on top of a pgx connection pool. The pool checks
// a connection out per statement, preserving one-statement-per-call semantics
// without per-call dialing.
type Postgres struct {
	db           Querier
	queryTimeout time.Duration
}

var _ Store = (*Postgres)(nil)

// New wraps an existing Querier, typically a *pgxpool.Pool.
func New(db Querier, opts ...Option) *Postgres {
	p := &Postgres{
		db:           db,
		queryTimeout: defaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Connect opens a pool against dsn. The pool dials lazily; connectivity is
// verified by Ping so a database that is down at boot surfaces per call, not
// as a startup failure.
func Connect(ctx context.Context, dsn string, opts ...Option) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	return New(pool, opts...), nil
}

// ListGrants implements Store.
func (p *Postgres) ListGrants(ctx context.Context) ([]model.Grant, error) {
	return collectList[model.Grant](ctx, p, "list_grants", listGrantsSQL)
}

// GetGrant implements Store.
func (p *Postgres) GetGrant(ctx context.Context, id int64) (model.Grant, error) {
	grant, err := collectOne[model.Grant](ctx, p, "get_grant", getGrantSQL, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Grant{}, fmt.Errorf("get_grant %d: %w", id, ErrNotFound)
	}
	return grant, err
}

// ListGrantBids implements Store.
func (p *Postgres) ListGrantBids(ctx context.Context, grantID int64) ([]model.Bid, error) {
	return collectList[model.Bid](ctx, p, "list_grant_bids", listGrantBidsSQL, grantID)
}

// ListOrganizations implements Store.
func (p *Postgres) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	return collectList[model.Organization](ctx, p, "list_organizations", listOrganizationsSQL)
}

// ListBids implements Store.
func (p *Postgres) ListBids(ctx context.Context) ([]model.Bid, error) {
	return collectList[model.Bid](ctx, p, "list_bids", listBidsSQL)
}

// CreateBid implements Store.
func (p *Postgres) CreateBid(ctx context.Context, bid model.NewBid) (model.Bid, error) {
	created, err := collectOne[model.Bid](ctx, p, "create_bid", createBidSQL,
		bid.GrantID, bid.OrganizationID, bid.Title, bid.Proposal, bid.RequestedAmount)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Bid{}, fmt.Errorf("create_bid: %w", ErrNoRowReturned)
	}
	return created, err
}

// Ping implements Store.
func (p *Postgres) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()
	if err := p.db.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Close implements Store.
func (p *Postgres) Close() {
	p.db.Close()
}

// collectList runs a statement and scans every row into T.
func collectList[T any](ctx context.Context, p *Postgres, op, stmt string, args ...any) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := p.db.Query(ctx, stmt, args...)
	if err != nil {
		metrics.RecordDBError(op)
		return nil, classify(op, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	metrics.RecordDBQueryDuration(op, durationMs(start))
	if err != nil {
		metrics.RecordDBError(op)
		return nil, classify(op, err)
	}
	return out, nil
}

// collectOne runs a statement and scans the first row into T. Callers see
// pgx.ErrNoRows when the statement yields nothing.
func collectOne[T any](ctx context.Context, p *Postgres, op, stmt string, args ...any) (T, error) {
	var zero T

	ctx, cancel := context.WithTimeout(ctx, p.queryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := p.db.Query(ctx, stmt, args...)
	if err != nil {
		metrics.RecordDBError(op)
		return zero, classify(op, err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[T])
	metrics.RecordDBQueryDuration(op, durationMs(start))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, err
		}
		metrics.RecordDBError(op)
		return zero, classify(op, err)
	}
	return row, nil
}

// classify maps Postgres error codes onto the package's sentinel kinds so the
// handler layer can translate them with errors.Is.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, ErrDuplicateBid, pgErr.ConstraintName)
		case strings.HasPrefix(pgErr.Code, classIntegrity):
			return fmt.Errorf("%s: %w: %s", op, ErrIntegrity, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func durationMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
