package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/config"
	"github.com/ruben-888/poynts-ai-portal-sub002/internal/obs"
)

// organizationParam is reserved: caller-supplied values are stripped and the
// resolved scope re-injected so a tenant can never widen its own filter.
const organizationParam = "organization_id"

// Request describes one outbound backend call. Immutable once built;
// consumed exactly once by Do.
type Request struct {
	Method string
	Path   string
	// Body is serialized to JSON when non-nil.
	Body any
	// Query parameters forwarded upstream. A caller-supplied
	// organization_id never survives.
	Query url.Values
	// Admin marks a cross-tenant call: fixed key, no organization scope.
	Admin bool
	// SkipOrgScope suppresses organization_id injection on tenant calls
	// whose upstream path is already scoped.
	SkipOrgScope bool
}

// Envelope is the uniform forwarding result. Exactly one of Payload and Err
// is meaningful; a success with no body (204 upstream) leaves both nil.
type Envelope struct {
	Payload json.RawMessage
	Err     *Error
}

// OK reports whether the upstream call succeeded.
func (e Envelope) OK() bool { return e.Err == nil }

// Client forwards requests to the Poynts backend. A single failed call is
// surfaced immediately; there is no retry or circuit breaking.
type Client struct {
	base     *url.URL
	httpc    *http.Client
	resolver *CredentialResolver
	timeout  time.Duration
}

// NewClient builds a forwarding client from validated configuration.
func NewClient(cfg config.Config, resolver *CredentialResolver) (*Client, error) {
	base, err := url.Parse(cfg.BackendAPIURL)
	if err != nil {
		return nil, fmt.Errorf("proxy: parse backend URL: %w", err)
	}
	return &Client{
		base:     base,
		httpc:    &http.Client{Timeout: cfg.UpstreamTimeout},
		resolver: resolver,
		timeout:  cfg.UpstreamTimeout,
	}, nil
}

// Do resolves the credential, forwards the call, and captures every outcome
// as an Envelope. Upstream and transport failures are returned as data so
// handlers share one code path with the success case.
func (c *Client) Do(ctx context.Context, req Request) Envelope {
	cred, err := c.resolver.Resolve(ctx, req.Admin)
	if err != nil {
		return Envelope{Err: AsError(err)}
	}

	target := c.buildURL(req, cred)

	var body *bytes.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return Envelope{Err: BadRequest("invalid request body")}
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return Envelope{Err: Errorf("build upstream request: %v", err)}
	}
	httpReq.Header.Set("Authorization", "Bearer "+cred.APIKey)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		obs.ObserveUpstream(req.Method, "transport_error", time.Since(start))
		obs.LogRequest(map[string]any{
			"ts":     time.Now().UTC().Format(time.RFC3339Nano),
			"level":  "error",
			"msg":    "upstream_unreachable",
			"method": req.Method,
			"url":    target,
			"error":  err.Error(),
		})
		return Envelope{Err: BadGateway(transportMessage(err))}
	}
	defer resp.Body.Close()
	obs.ObserveUpstream(req.Method, fmt.Sprint(resp.StatusCode), time.Since(start))

	if resp.StatusCode == http.StatusNoContent {
		return Envelope{}
	}

	var payload json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		// Tolerate invalid upstream JSON: an empty object keeps the
		// envelope shape stable.
		payload = json.RawMessage("{}")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := upstreamErrorMessage(payload, resp.StatusCode)
		obs.LogRequest(map[string]any{
			"ts":     time.Now().UTC().Format(time.RFC3339Nano),
			"level":  "error",
			"msg":    "upstream_error",
			"method": req.Method,
			"url":    target,
			"status": resp.StatusCode,
			"error":  msg,
		})
		return Envelope{Err: NewError(resp.StatusCode, msg)}
	}

	return Envelope{Payload: payload}
}

func (c *Client) buildURL(req Request, cred Credential) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(req.Path, "/")

	query := url.Values{}
	for key, vals := range req.Query {
		if key == organizationParam {
			continue
		}
		for _, v := range vals {
			query.Add(key, v)
		}
	}
	if !req.Admin && !req.SkipOrgScope && cred.OrganizationID != "" {
		query.Set(organizationParam, cred.OrganizationID)
	}
	u.RawQuery = query.Encode()
	return u.String()
}

// upstreamErrorMessage extracts a human message from an upstream error body.
// Three ordered candidates: nested error.message, top-level message, then a
// generic status fallback.
func upstreamErrorMessage(payload json.RawMessage, status int) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &nested); err == nil {
		if msg := strings.TrimSpace(nested.Error.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(nested.Message); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("Backend error: %d", status)
}

func transportMessage(err error) string {
	// url.Error prefixes the full upstream URL; unwrap so only the
	// transport failure itself reaches the caller.
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}
	return err.Error()
}
