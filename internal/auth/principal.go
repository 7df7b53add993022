package auth

// Principal represents an authenticated operator with resolved permissions.
type Principal struct {
	UserID string
	// OrganizationID is the identity provider's organization identifier.
	OrganizationID string
	Permissions    map[string]struct{}
}

// NewPrincipal constructs a principal from verified claims.
func NewPrincipal(claims *Claims) Principal {
	set := make(map[string]struct{}, len(claims.Permissions))
	for _, p := range claims.Permissions {
		set[p] = struct{}{}
	}
	return Principal{
		UserID:         claims.Subject,
		OrganizationID: claims.OrganizationID,
		Permissions:    set,
	}
}

// HasPermission reports whether the principal holds the permission key.
func (p Principal) HasPermission(key string) bool {
	_, ok := p.Permissions[key]
	return ok
}

// IsAdmin reports whether the principal may use cross-tenant routes.
func (p Principal) IsAdmin() bool {
	return p.HasPermission(PermAdminAccess)
}
