package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/auth"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/config"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", false},
		{"bearer abc.def.ghi", "abc.def.ghi", false},
		{"  Bearer abc  ", "abc", false},
		{"", "", true},
		{"Bearer ", "", true},
		{"Basic abc", "", true},
		{"abc.def.ghi", "", true},
	}
	for _, tc := range cases {
		got, err := extractBearerToken(tc.header)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("header %q: expected error", tc.header)
			}
			continue
		}
		if err != nil {
			t.Fatalf("header %q: unexpected error %v", tc.header, err)
		}
		if got != tc.want {
			t.Fatalf("header %q: got %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestAuthorizeDomainSentinels(t *testing.T) {
	api := &API{cfg: config.Config{EnforcePermissions: true}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
	if err := api.authorizeDomain(req, auth.DomainMembers); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without principal, got %v", err)
	}

	viewer := auth.Principal{
		UserID:      "user-1",
		Permissions: map[string]struct{}{"members.view": {}},
	}
	withViewer := func(r *http.Request) *http.Request {
		return r.WithContext(auth.ContextWithPrincipal(context.Background(), viewer))
	}

	if err := api.authorizeDomain(withViewer(req), auth.DomainMembers); err != nil {
		t.Fatalf("view with members.view: %v", err)
	}
	post := httptest.NewRequest(http.MethodPost, "/api/v1/members", nil)
	if err := api.authorizeDomain(withViewer(post), auth.DomainMembers); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for manage without permission, got %v", err)
	}
	if err := api.authorizeAdmin(withViewer(req)); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
	if err := api.authorizeAdmin(req); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without principal, got %v", err)
	}
}

func TestWriteAuthErrorBodies(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{auth.ErrUnauthorized, http.StatusUnauthorized, `{"error":"Unauthorized"}`},
		{auth.ErrForbidden, http.StatusForbidden, `{"error":"Forbidden"}`},
		{errors.New("anything else"), http.StatusUnauthorized, `{"error":"Unauthorized"}`},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		writeAuthError(rr, tc.err)
		if rr.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, rr.Code)
		}
		if body := strings.TrimSpace(rr.Body.String()); body != tc.body {
			t.Fatalf("%v: unexpected body %s", tc.err, body)
		}
	}
}

func TestIsPublicPath(t *testing.T) {
	for _, path := range []string{"/api/v1/auth/token", "/metrics", "/healthz", "/readyz", "/"} {
		if !isPublicPath(path) {
			t.Fatalf("expected %q public", path)
		}
	}
	for _, path := range []string{"/api/v1/members", "/api/v1/organizations", "/api/v1/auth/token/extra"} {
		if isPublicPath(path) {
			t.Fatalf("expected %q protected", path)
		}
	}
}
