package proxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/auth"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/config"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/org"
)

func testConfig(backendURL string) config.Config {
	return config.Config{
		BackendAPIKey:   "sk-test",
		BackendAPIURL:   backendURL,
		UpstreamTimeout: 5 * time.Second,
	}
}

func tenantContext(t *testing.T, externalOrg string) context.Context {
	t.Helper()
	principal := auth.NewPrincipal(&auth.Claims{Permissions: []string{"campaigns.view"}})
	principal.UserID = "user-1"
	principal.OrganizationID = externalOrg
	return auth.ContextWithPrincipal(context.Background(), principal)
}

func newTestClient(t *testing.T, backendURL string, store org.Store) *Client {
	t.Helper()
	cfg := testConfig(backendURL)
	resolver, err := NewCredentialResolver(cfg, store)
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	client, err := NewClient(cfg, resolver)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return client
}

func seededStore(t *testing.T) *org.MemoryStore {
	t.Helper()
	store := org.NewMemoryStore()
	if err := store.Create(context.Background(), &org.Mapping{ExternalID: "idp-org-1", OrganizationID: "org-internal-1"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func TestDoInjectsResolvedOrganization(t *testing.T) {
	var gotURL *url.URL
	var gotAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream.URL, seededStore(t))
	env := client.Do(tenantContext(t, "idp-org-1"), Request{
		Method: http.MethodGet,
		Path:   "/campaigns",
		Query:  url.Values{"limit": {"10"}, "organization_id": {"other"}},
	})
	if !env.OK() {
		t.Fatalf("unexpected error: %+v", env.Err)
	}
	if got := gotURL.Query().Get("organization_id"); got != "org-internal-1" {
		t.Fatalf("expected resolved organization_id, got %q", got)
	}
	if got := gotURL.Query().Get("limit"); got != "10" {
		t.Fatalf("expected limit passthrough, got %q", got)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
}

func TestDoAdminOmitsOrganization(t *testing.T) {
	var gotURL *url.URL
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream.URL, seededStore(t))
	env := client.Do(tenantContext(t, "idp-org-1"), Request{
		Method: http.MethodGet,
		Path:   "/organizations",
		Query:  url.Values{"organization_id": {"override-attempt"}},
		Admin:  true,
	})
	if !env.OK() {
		t.Fatalf("unexpected error: %+v", env.Err)
	}
	if _, present := gotURL.Query()["organization_id"]; present {
		t.Fatal("admin call must not carry organization_id")
	}
}

func TestDoSkipOrgScopeLeavesTenantCallUnscoped(t *testing.T) {
	var gotURL *url.URL
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream.URL, seededStore(t))
	env := client.Do(tenantContext(t, "idp-org-1"), Request{
		Method:       http.MethodGet,
		Path:         "/organizations/org-internal-1/summary",
		Query:        url.Values{"organization_id": {"spoofed"}},
		SkipOrgScope: true,
	})
	if !env.OK() {
		t.Fatalf("unexpected error: %+v", env.Err)
	}
	if _, present := gotURL.Query()["organization_id"]; present {
		t.Fatalf("scoped path must not carry organization_id: %v", gotURL.Query())
	}
}

func TestDoPassesThroughSuccessPayload(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"x"}}`))
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream.URL, seededStore(t))
	env := client.Do(tenantContext(t, "idp-org-1"), Request{Method: http.MethodGet, Path: "/members"})
	if !env.OK() {
		t.Fatalf("unexpected error: %+v", env.Err)
	}
	var decoded map[string]map[string]string
	if err := json.Unmarshal(env.Payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded["data"]["id"] != "x" {
		t.Fatalf("payload mutated: %s", env.Payload)
	}
}

func TestDoNoContentSkipsParsing(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream.URL, seededStore(t))
	env := client.Do(tenantContext(t, "idp-org-1"), Request{Method: http.MethodDelete, Path: "/campaigns/c1"})
	if !env.OK() {
		t.Fatalf("unexpected error: %+v", env.Err)
	}
	if env.Payload != nil {
		t.Fatalf("expected nil payload, got %s", env.Payload)
	}
}

func TestDoMapsUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream.URL, seededStore(t))
	env := client.Do(tenantContext(t, "idp-org-1"), Request{Method: http.MethodGet, Path: "/members/m1"})
	if env.OK() {
		t.Fatal("expected error envelope")
	}
	if env.Err.Status != http.StatusNotFound || env.Err.Message != "not found" {
		t.Fatalf("unexpected error: %+v", env.Err)
	}
}

func TestDoTransportFailureIsBadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // connection refused from here on

	client := newTestClient(t, upstream.URL, seededStore(t))
	env := client.Do(tenantContext(t, "idp-org-1"), Request{Method: http.MethodGet, Path: "/members"})
	if env.OK() {
		t.Fatal("expected error envelope")
	}
	if env.Err.Status != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", env.Err.Status)
	}
	if env.Err.Message == "" {
		t.Fatal("expected transport error message")
	}
}

func TestDoSerializesBody(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"new"}`))
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream.URL, seededStore(t))
	env := client.Do(tenantContext(t, "idp-org-1"), Request{
		Method: http.MethodPost,
		Path:   "/campaigns",
		Body:   map[string]string{"name": "Winter promo"},
	})
	if !env.OK() {
		t.Fatalf("unexpected error: %+v", env.Err)
	}
	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type: %q", gotContentType)
	}
	if gotBody["name"] != "Winter promo" {
		t.Fatalf("unexpected body: %v", gotBody)
	}
}

func TestDoToleratesInvalidUpstreamJSON(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>boom</html>"))
	}))
	defer upstream.Close()

	client := newTestClient(t, upstream.URL, seededStore(t))
	env := client.Do(tenantContext(t, "idp-org-1"), Request{Method: http.MethodGet, Path: "/members"})
	if env.OK() {
		t.Fatal("expected error envelope")
	}
	if env.Err.Message != "Backend error: 500" {
		t.Fatalf("unexpected message: %q", env.Err.Message)
	}
}

func TestUpstreamErrorMessagePrecedence(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    string
	}{
		{"nested wins", `{"error":{"message":"nested"},"message":"top"}`, "nested"},
		{"top level fallback", `{"message":"top"}`, "top"},
		{"generic fallback", `{"unrelated":true}`, "Backend error: 503"},
		{"blank nested falls through", `{"error":{"message":"  "},"message":"top"}`, "top"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := upstreamErrorMessage(json.RawMessage(tc.payload), http.StatusServiceUnavailable)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDoRespectsTimeout(t *testing.T) {
	block := make(chan struct{})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		upstream.Close()
	}()

	cfg := testConfig(upstream.URL)
	cfg.UpstreamTimeout = 50 * time.Millisecond
	resolver, err := NewCredentialResolver(cfg, seededStore(t))
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	client, err := NewClient(cfg, resolver)
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	start := time.Now()
	env := client.Do(tenantContext(t, "idp-org-1"), Request{Method: http.MethodGet, Path: "/members"})
	if env.OK() {
		t.Fatal("expected timeout error")
	}
	if env.Err.Status != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", env.Err.Status)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout not enforced")
	}
}
