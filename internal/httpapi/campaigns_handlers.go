package httpapi

import (
	"net/http"
	"strings"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/auth"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/proxy"
)

func (a *API) handleCampaignsCollection(w http.ResponseWriter, r *http.Request) {
	if !a.ensureDomain(w, r, auth.DomainCampaigns) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.forward(w, r, auth.DomainCampaigns, proxy.Request{
			Method: http.MethodGet,
			Path:   "/campaigns",
		}, http.StatusOK)
	case http.MethodPost:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		a.forward(w, r, auth.DomainCampaigns, proxy.Request{
			Method: http.MethodPost,
			Path:   "/campaigns",
			Body:   body,
		}, http.StatusCreated)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// handleCampaignResource serves /api/v1/campaigns/{id} and the nested
// /api/v1/campaigns/{id}/steps collection.
func (a *API) handleCampaignResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/campaigns/")
	id, sub, nested := strings.Cut(rest, "/")
	if id == "" || (nested && sub != "steps") {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	if !a.ensureDomain(w, r, auth.DomainCampaigns) {
		return
	}

	if nested {
		a.handleCampaignSteps(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.forward(w, r, auth.DomainCampaigns, proxy.Request{
			Method: http.MethodGet,
			Path:   "/campaigns/" + id,
		}, http.StatusOK)
	case http.MethodPatch, http.MethodPut:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		a.forward(w, r, auth.DomainCampaigns, proxy.Request{
			Method: r.Method,
			Path:   "/campaigns/" + id,
			Body:   body,
		}, http.StatusOK)
	case http.MethodDelete:
		a.forward(w, r, auth.DomainCampaigns, proxy.Request{
			Method: http.MethodDelete,
			Path:   "/campaigns/" + id,
		}, http.StatusNoContent)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPatch, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) handleCampaignSteps(w http.ResponseWriter, r *http.Request, campaignID string) {
	switch r.Method {
	case http.MethodGet:
		a.forward(w, r, auth.DomainCampaigns, proxy.Request{
			Method: http.MethodGet,
			Path:   "/campaigns/" + campaignID + "/steps",
		}, http.StatusOK)
	case http.MethodPost:
		body, ok := readBody(w, r)
		if !ok {
			return
		}
		a.forward(w, r, auth.DomainCampaigns, proxy.Request{
			Method: http.MethodPost,
			Path:   "/campaigns/" + campaignID + "/steps",
			Body:   body,
		}, http.StatusCreated)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}
