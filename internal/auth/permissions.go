package auth

import "net/http"

// Domain names a proxied resource category. Permission lookups key off the
// domain plus the operation derived from the HTTP method.
type Domain string

const (
	DomainMembers       Domain = "members"
	DomainCatalogs      Domain = "catalogs"
	DomainCampaigns     Domain = "campaigns"
	DomainPrograms      Domain = "programs"
	DomainOrders        Domain = "orders"
	DomainRewards       Domain = "rewards"
	DomainOrganizations Domain = "organizations"
	DomainInternal      Domain = "internal"
)

// Operation is the coarse action class a request performs.
type Operation string

const (
	OperationView   Operation = "view"
	OperationManage Operation = "manage"
)

// PermAdminAccess gates cross-tenant routes regardless of domain.
const PermAdminAccess = "admin.access"

type domainPermissions struct {
	view   string
	manage string
}

var permissionTable = map[Domain]domainPermissions{
	DomainMembers:       {view: "members.view", manage: "members.manage"},
	DomainCatalogs:      {view: "catalogs.view", manage: "catalogs.manage"},
	DomainCampaigns:     {view: "campaigns.view", manage: "campaigns.manage"},
	DomainPrograms:      {view: "programs.view", manage: "programs.manage"},
	DomainOrders:        {view: "orders.view", manage: "orders.manage"},
	DomainRewards:       {view: "rewards.view", manage: "rewards.manage"},
	DomainOrganizations: {view: "organizations.view", manage: "organizations.manage"},
	DomainInternal:      {view: "internal.view", manage: "internal.manage"},
}

// OperationForMethod derives the operation class from an HTTP method.
// GET and HEAD read; everything else mutates.
func OperationForMethod(method string) Operation {
	switch method {
	case http.MethodGet, http.MethodHead:
		return OperationView
	default:
		return OperationManage
	}
}

// PermissionFor returns the permission key guarding the (domain, operation)
// pair. Unknown domains return false.
func PermissionFor(domain Domain, op Operation) (string, bool) {
	perms, ok := permissionTable[domain]
	if !ok {
		return "", false
	}
	if op == OperationView {
		return perms.view, true
	}
	return perms.manage, true
}

// Can reports whether the principal may perform op on domain.
func (p Principal) Can(domain Domain, op Operation) bool {
	key, ok := PermissionFor(domain, op)
	if !ok {
		return false
	}
	return p.HasPermission(key)
}

// AllPermissions returns every known permission key, including admin access.
// Used by the token endpoint to validate requested grants.
func AllPermissions() []string {
	keys := make([]string, 0, len(permissionTable)*2+1)
	for _, perms := range permissionTable {
		keys = append(keys, perms.view, perms.manage)
	}
	keys = append(keys, PermAdminAccess)
	return keys
}
