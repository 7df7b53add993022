package proxy

import (
	"context"
	"errors"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/auth"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/config"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/org"
)

// Credential is the resolved upstream secret plus optional tenant scope.
// OrganizationID is set exactly when the request is tenant-scoped and a
// mapping exists for the caller's claimed organization.
type Credential struct {
	APIKey         string
	OrganizationID string
}

// CredentialResolver decides which key and organization scope an outbound
// call uses. It is the only component that consults the organization-mapping
// store.
type CredentialResolver struct {
	apiKey string
	orgs   org.Store
}

// NewCredentialResolver validates the configured key up front; a missing key
// is a startup failure, never a per-request one.
func NewCredentialResolver(cfg config.Config, orgs org.Store) (*CredentialResolver, error) {
	if cfg.BackendAPIKey == "" {
		return nil, errors.New("proxy: backend API key is not configured")
	}
	return &CredentialResolver{apiKey: cfg.BackendAPIKey, orgs: orgs}, nil
}

// Resolve produces the credential for the current request. Admin routes get
// the bare key with no scope; tenant routes additionally resolve the
// caller's claimed organization to its internal id.
func (r *CredentialResolver) Resolve(ctx context.Context, admin bool) (Credential, error) {
	if admin {
		return Credential{APIKey: r.apiKey}, nil
	}

	principal, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return Credential{}, Unauthorized("Unauthorized")
	}
	if principal.OrganizationID == "" {
		return Credential{}, BadRequest("no organization context")
	}
	if r.orgs == nil {
		return Credential{}, Internal("organization store unavailable")
	}

	internalID, err := r.orgs.Resolve(ctx, principal.OrganizationID)
	switch {
	case errors.Is(err, org.ErrNoContext):
		return Credential{}, BadRequest("no organization context")
	case errors.Is(err, org.ErrNotFound):
		return Credential{}, NotFound("organization not found")
	case err != nil:
		return Credential{}, Internal("organization lookup failed")
	}

	return Credential{APIKey: r.apiKey, OrganizationID: internalID}, nil
}
