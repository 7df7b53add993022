package httpapi

import (
	"net/http"
	"strings"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/auth"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/proxy"
)

func (a *API) handleRewardsCollection(w http.ResponseWriter, r *http.Request) {
	if !a.ensureDomain(w, r, auth.DomainRewards) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.forward(w, r, auth.DomainRewards, proxy.Request{
			Method: http.MethodGet,
			Path:   "/rewards",
		}, http.StatusOK)
	case http.MethodPost:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		a.forward(w, r, auth.DomainRewards, proxy.Request{
			Method: http.MethodPost,
			Path:   "/rewards",
			Body:   body,
		}, http.StatusCreated)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleRewardResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/rewards/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	if !a.ensureDomain(w, r, auth.DomainRewards) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.forward(w, r, auth.DomainRewards, proxy.Request{
			Method: http.MethodGet,
			Path:   "/rewards/" + id,
		}, http.StatusOK)
	case http.MethodPatch, http.MethodPut:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		a.forward(w, r, auth.DomainRewards, proxy.Request{
			Method: r.Method,
			Path:   "/rewards/" + id,
			Body:   body,
		}, http.StatusOK)
	case http.MethodDelete:
		a.forward(w, r, auth.DomainRewards, proxy.Request{
			Method: http.MethodDelete,
			Path:   "/rewards/" + id,
		}, http.StatusNoContent)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodPut, http.MethodDelete)
	}
}

// handleRewardSources lists the catalog of reward providers available to the
// organization. Read-only; sources are managed upstream.
func (a *API) handleRewardSources(w http.ResponseWriter, r *http.Request) {
	if !a.ensureDomain(w, r, auth.DomainRewards) {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	a.forward(w, r, auth.DomainRewards, proxy.Request{
		Method: http.MethodGet,
		Path:   "/reward-sources",
	}, http.StatusOK)
}
