package httpapi

import (
	"net/http"
	"strings"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/auth"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/proxy"
)

func (a *API) handleOrdersCollection(w http.ResponseWriter, r *http.Request) {
	if !a.ensureDomain(w, r, auth.DomainOrders) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.forward(w, r, auth.DomainOrders, proxy.Request{
			Method: http.MethodGet,
			Path:   "/orders",
		}, http.StatusOK)
	case http.MethodPost:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		a.forward(w, r, auth.DomainOrders, proxy.Request{
			Method: http.MethodPost,
			Path:   "/orders",
			Body:   body,
		}, http.StatusCreated)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// Orders are fulfillment records; they can be amended (status transitions)
// but never removed, so DELETE is not part of the surface.
func (a *API) handleOrderResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/orders/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	if !a.ensureDomain(w, r, auth.DomainOrders) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.forward(w, r, auth.DomainOrders, proxy.Request{
			Method: http.MethodGet,
			Path:   "/orders/" + id,
		}, http.StatusOK)
	case http.MethodPatch:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		a.forward(w, r, auth.DomainOrders, proxy.Request{
			Method: http.MethodPatch,
			Path:   "/orders/" + id,
			Body:   body,
		}, http.StatusOK)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPatch)
	}
}
