package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/config"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/obs"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/org"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/proxy"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/stream"
)

// ReadyProbe reports whether downstream dependencies are reachable.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

type readinessChecker interface {
	Check(ctx context.Context) error
}

// API is the HTTP layer: authentication, permission checks, and the proxied
// resource routes.
type API struct {
	mux        *http.ServeMux
	cfg        config.Config
	client     *proxy.Client
	orgs       org.Store
	readyProbe ReadyProbe
	activity   *stream.Stream
	version    string

	rateBurst  int
	ratePerSec int
}

// New wires every route. The proxy client and activity stream are required;
// the ready probe may carry a nil DB.
func New(cfg config.Config, client *proxy.Client, orgs org.Store, rp ReadyProbe, activity *stream.Stream, version string) *API {
	a := &API{
		mux:        http.NewServeMux(),
		cfg:        cfg,
		client:     client,
		orgs:       orgs,
		readyProbe: rp,
		activity:   activity,
		version:    version,
		rateBurst:  cfg.RateBurst,
		ratePerSec: cfg.RatePerSec,
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/api/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// token issuance for ops and tests
	a.mux.HandleFunc("/api/v1/auth/token", a.handleAuthToken)

	// tenant-scoped proxied resources
	a.mux.HandleFunc("/api/v1/members", a.handleMembersCollection)
	a.mux.HandleFunc("/api/v1/members/", a.handleMemberResource)
	a.mux.HandleFunc("/api/v1/catalogs", a.handleCatalogsCollection)
	a.mux.HandleFunc("/api/v1/catalogs/", a.handleCatalogResource)
	a.mux.HandleFunc("/api/v1/campaigns", a.handleCampaignsCollection)
	a.mux.HandleFunc("/api/v1/campaigns/", a.handleCampaignResource)
	a.mux.HandleFunc("/api/v1/programs", a.handleProgramsCollection)
	a.mux.HandleFunc("/api/v1/programs/", a.handleProgramResource)
	a.mux.HandleFunc("/api/v1/orders", a.handleOrdersCollection)
	a.mux.HandleFunc("/api/v1/orders/", a.handleOrderResource)
	a.mux.HandleFunc("/api/v1/rewards", a.handleRewardsCollection)
	a.mux.HandleFunc("/api/v1/rewards/", a.handleRewardResource)
	a.mux.HandleFunc("/api/v1/reward-sources", a.handleRewardSources)

	// admin (cross-tenant) surface
	a.mux.HandleFunc("/api/v1/organizations", a.handleOrganizationsCollection)
	a.mux.HandleFunc("/api/v1/organizations/", a.handleOrganizationResource)
	a.mux.HandleFunc("/api/v1/internal/activity", a.handleActivityStream)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "resource not found")
	})

	return a
}

// Handler composes the middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = LoggingJSON(h)
	h = SecurityHeaders(h)
	h = CORS(h)
	h = RequestID(h)
	return obs.Instrument(h)
}
