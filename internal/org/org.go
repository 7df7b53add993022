// Package org maps identity-provider organization identifiers to the
// internal organization ids understood by the Poynts backend. The proxy
// credential resolver reads mappings; the admin organization routes
// manage them.
package org

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound means no mapping exists for the external identifier.
	ErrNotFound = errors.New("org: organization not found")
	// ErrNoContext means the caller carries no organization claim at all.
	ErrNoContext = errors.New("org: no organization context")
)

// Mapping links an identity-provider organization to an internal one.
type Mapping struct {
	// ExternalID is the identity provider's organization identifier.
	ExternalID string
	// OrganizationID is the internal id the backend filters by.
	OrganizationID string
	Name           string
	CreatedAt      time.Time
}

// Store resolves and manages organization mappings.
type Store interface {
	// Resolve returns the internal organization id for an external one.
	// Returns ErrNoContext for an empty external id and ErrNotFound when
	// no mapping row exists.
	Resolve(ctx context.Context, externalID string) (string, error)
	Create(ctx context.Context, m *Mapping) error
	List(ctx context.Context) ([]*Mapping, error)
}
