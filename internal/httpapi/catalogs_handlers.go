package httpapi

import (
	"net/http"
	"strings"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/auth"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/proxy"
)

func (a *API) handleCatalogsCollection(w http.ResponseWriter, r *http.Request) {
	if !a.ensureDomain(w, r, auth.DomainCatalogs) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.forward(w, r, auth.DomainCatalogs, proxy.Request{
			Method: http.MethodGet,
			Path:   "/catalogs",
		}, http.StatusOK)
	case http.MethodPost:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		a.forward(w, r, auth.DomainCatalogs, proxy.Request{
			Method: http.MethodPost,
			Path:   "/catalogs",
			Body:   body,
		}, http.StatusCreated)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// handleCatalogResource serves /api/v1/catalogs/{id} and the nested
// /api/v1/catalogs/{id}/items collection.
func (a *API) handleCatalogResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/catalogs/")
	id, sub, nested := strings.Cut(rest, "/")
	if id == "" || (nested && sub != "items") {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	if !a.ensureDomain(w, r, auth.DomainCatalogs) {
		return
	}

	if nested {
		a.handleCatalogItems(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.forward(w, r, auth.DomainCatalogs, proxy.Request{
			Method: http.MethodGet,
			Path:   "/catalogs/" + id,
		}, http.StatusOK)
	case http.MethodPatch, http.MethodPut:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		a.forward(w, r, auth.DomainCatalogs, proxy.Request{
			Method: r.Method,
			Path:   "/catalogs/" + id,
			Body:   body,
		}, http.StatusOK)
	case http.MethodDelete:
		a.forward(w, r, auth.DomainCatalogs, proxy.Request{
			Method: http.MethodDelete,
			Path:   "/catalogs/" + id,
		}, http.StatusNoContent)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) handleCatalogItems(w http.ResponseWriter, r *http.Request, catalogID string) {
	switch r.Method {
	case http.MethodGet:
		a.forward(w, r, auth.DomainCatalogs, proxy.Request{
			Method: http.MethodGet,
			Path:   "/catalogs/" + catalogID + "/items",
		}, http.StatusOK)
	case http.MethodPost:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		a.forward(w, r, auth.DomainCatalogs, proxy.Request{
			Method: http.MethodPost,
			Path:   "/catalogs/" + catalogID + "/items",
			Body:   body,
		}, http.StatusCreated)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}
