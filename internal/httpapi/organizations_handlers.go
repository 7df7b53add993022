package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/audit"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/auth"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/org"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/proxy"
)

// Organization routes are cross-tenant: every proxied call runs in admin
// mode, so no organization scope is attached upstream.

func (a *API) handleOrganizationsCollection(w http.ResponseWriter, r *http.Request) {
	if !a.ensureAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.forward(w, r, auth.DomainOrganizations, proxy.Request{
			Method: http.MethodGet,
			Path:   "/organizations",
			Admin:  true,
		}, http.StatusOK)
	case http.MethodPost:
		a.createOrganization(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// createOrganization provisions the organization upstream and then records
// the identity-provider mapping locally so tenant requests can resolve it.
// The mapping write is best-effort: a failure is logged, not surfaced, and
// the row can be re-created by replaying the external_id through the
// mappings endpoint.
func (a *API) createOrganization(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	var req struct {
		ExternalID string `json:"external_id"`
		Name       string `json:"name"`
	}
	_ = json.Unmarshal(body, &req)

	env := a.client.Do(r.Context(), proxy.Request{
		Method: http.MethodPost,
		Path:   "/organizations",
		Body:   body,
		Query:  r.URL.Query(),
		Admin:  true,
	})
	if env.OK() {
		a.recordMapping(r, req.ExternalID, req.Name, env.Payload)
		a.recordWrite(r, auth.DomainOrganizations, proxy.Request{Method: http.MethodPost, Path: "/organizations"})
	}
	proxy.Respond(w, env, http.StatusCreated)
}

func (a *API) recordMapping(r *http.Request, externalID, name string, payload json.RawMessage) {
	if a.orgs == nil || externalID == "" {
		return
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &created); err != nil || created.ID == "" {
		_ = audit.LogEvent(r.Context(), "org.mapping.skipped", map[string]any{
			"external_id": externalID,
			"reason":      "upstream response carried no id",
		})
		return
	}
	err := a.orgs.Create(r.Context(), &org.Mapping{
		ExternalID:     externalID,
		OrganizationID: created.ID,
		Name:           name,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		_ = audit.LogEvent(r.Context(), "org.mapping.failed", map[string]any{
			"external_id": externalID,
			"error":       err.Error(),
		})
	}
}

// handleOrganizationResource serves /api/v1/organizations/{id} plus the
// local /api/v1/organizations/mappings listing.
func (a *API) handleOrganizationResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/organizations/")
	if rest == "" || strings.Contains(rest, "/") {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	if !a.ensureAdmin(w, r) {
		return
	}

	if rest == "mappings" {
		a.listMappings(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.forward(w, r, auth.DomainOrganizations, proxy.Request{
			Method: http.MethodGet,
			Path:   "/organizations/" + rest,
			Admin:  true,
		}, http.StatusOK)
	case http.MethodPatch, http.MethodPut:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		a.forward(w, r, auth.DomainOrganizations, proxy.Request{
			Method: r.Method,
			Path:   "/organizations/" + rest,
			Body:   body,
			Admin:  true,
		}, http.StatusOK)
	case http.MethodDelete:
		a.forward(w, r, auth.DomainOrganizations, proxy.Request{
			Method: http.MethodDelete,
			Path:   "/organizations/" + rest,
			Admin:  true,
		}, http.StatusNoContent)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listMappings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if a.orgs == nil {
		writeJSON(w, http.StatusOK, map[string]any{"mappings": []any{}})
		return
	}
	mappings, err := a.orgs.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]map[string]any, 0, len(mappings))
	for _, m := range mappings {
		out = append(out, map[string]any{
			"external_id":     m.ExternalID,
			"organization_id": m.OrganizationID,
			"name":            m.Name,
			"created_at":      m.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"mappings": out})
}
