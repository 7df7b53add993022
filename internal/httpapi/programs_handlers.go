package httpapi

import (
	"net/http"
	"strings"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/auth"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/proxy"
)

func (a *API) handleProgramsCollection(w http.ResponseWriter, r *http.Request) {
	if !a.ensureDomain(w, r, auth.DomainPrograms) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.forward(w, r, auth.DomainPrograms, proxy.Request{
			Method: http.MethodGet,
			Path:   "/programs",
		}, http.StatusOK)
	case http.MethodPost:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		a.forward(w, r, auth.DomainPrograms, proxy.Request{
			Method: http.MethodPost,
			Path:   "/programs",
			Body:   body,
		}, http.StatusCreated)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleProgramResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/programs/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	if !a.ensureDomain(w, r, auth.DomainPrograms) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.forward(w, r, auth.DomainPrograms, proxy.Request{
			Method: http.MethodGet,
			Path:   "/programs/" + id,
		}, http.StatusOK)
	case http.MethodPatch, http.MethodPut:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		a.forward(w, r, auth.DomainPrograms, proxy.Request{
			Method: r.Method,
			Path:   "/programs/" + id,
			Body:   body,
		}, http.StatusOK)
	case http.MethodDelete:
		a.forward(w, r, auth.DomainPrograms, proxy.Request{
			Method: http.MethodDelete,
			Path:   "/programs/" + id,
		}, http.StatusNoContent)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodPut, http.MethodDelete)
	}
}
