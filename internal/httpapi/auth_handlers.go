package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/audit"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/auth"
)

type tokenRequest struct {
	User           string   `json:"user"`
	OrganizationID string   `json:"organization_id"`
	Permissions    []string `json:"permissions"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

const tokenTTL = 15 * time.Minute

// handleAuthToken mints short-lived portal tokens. In production the portal
// exchanges identity-provider sessions here; in development it doubles as a
// way to mint tokens by hand.
func (a *API) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req tokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := strings.TrimSpace(req.User)
	if user == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}
	known := make(map[string]struct{})
	for _, key := range auth.AllPermissions() {
		known[key] = struct{}{}
	}
	permissions := make([]string, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := known[strings.ToLower(p)]; !ok {
			writeError(w, http.StatusBadRequest, "unknown permission: "+p)
			return
		}
		permissions = append(permissions, p)
	}
	if len(permissions) == 0 {
		writeError(w, http.StatusBadRequest, "permissions are required")
		return
	}

	token, err := auth.GenerateToken(user, strings.TrimSpace(req.OrganizationID), permissions, tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}

	expiresAt := time.Now().UTC().Add(tokenTTL)
	fields := map[string]any{
		"user":        user,
		"permissions": permissions,
		"expires_at":  expiresAt.Format(time.RFC3339),
	}
	if req.OrganizationID != "" {
		fields["organization_id"] = req.OrganizationID
	}
	_ = audit.LogEvent(r.Context(), "auth.token.issued", fields)

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
