// Package model contains domain models passed between layers.
package model

import "time"

// Organization is an entity that publishes grants and/or submits bids.
// Rows are owned by the external store; this process never mutates them.
type Organization struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Grant is a funding opportunity open for bids. CreatedBy is nullable in the
// store; CreatedByName is resolved via a left join and null when the creator
// is unset.
type Grant struct {
	ID                  int64      `json:"id" db:"id"`
	Title               string     `json:"title" db:"title"`
	Description         string     `json:"description" db:"description"`
	FundingAmount       float64    `json:"funding_amount" db:"funding_amount"`
	ApplicationDeadline *time.Time `json:"application_deadline" db:"application_deadline"`
	Status              string     `json:"status" db:"status"`
	CreatedBy           *int64     `json:"created_by" db:"created_by"`
	CreatedByName       *string    `json:"created_by_name" db:"created_by_name"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
}

// Bid is one organization's proposal against one grant. The store enforces
// at most one bid per (grant, organization) pair. GrantTitle and
// OrganizationName are join fields, present only on listings that join them.
type Bid struct {
	ID               int64     `json:"id" db:"id"`
	GrantID          int64     `json:"grant_id" db:"grant_id"`
	OrganizationID   int64     `json:"organization_id" db:"organization_id"`
	Title            string    `json:"title" db:"title"`
	Proposal         string    `json:"proposal" db:"proposal"`
	RequestedAmount  float64   `json:"requested_amount" db:"requested_amount"`
	Status           string    `json:"status" db:"status"`
	SubmittedAt      time.Time `json:"submitted_at" db:"submitted_at"`
	GrantTitle       *string   `json:"grant_title,omitempty" db:"grant_title"`
	OrganizationName *string   `json:"organization_name,omitempty" db:"organization_name"`
}

// NewBid carries the client-supplied fields of a bid submission. The id,
// status, and submission timestamp are assigned by the store.
type NewBid struct {
	GrantID         int64
	OrganizationID  int64
	Title           string
	Proposal        string
	RequestedAmount float64
}
