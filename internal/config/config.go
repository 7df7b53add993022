package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBackendURL points at the managed Poynts platform deployment.
	DefaultBackendURL = "https://poynts-backend-api-3v2u6yXq-uc.a.run.app"

	defaultListenAddr      = ":8080"
	defaultGRPCAddr        = ":9091"
	defaultUpstreamTimeout = 30 * time.Second
)

// Config carries all process-level settings. It is constructed once at
// startup and injected into the components that need it; nothing reads the
// environment after Load returns.
type Config struct {
	// ListenAddr is the HTTP bind address.
	ListenAddr string
	// GRPCAddr is the bind address for the gRPC health listener. Empty
	// disables the listener.
	GRPCAddr string

	// BackendAPIKey is the privileged key used for all upstream calls.
	BackendAPIKey string
	// BackendAPIURL is the upstream base URL.
	BackendAPIURL string

	// PostgresDSN is the organization-mapping database. Empty runs the
	// service without a database (readiness skips the ping and tenant
	// routes fail organization resolution).
	PostgresDSN string

	// UpstreamTimeout bounds every proxied call.
	UpstreamTimeout time.Duration

	// EnforcePermissions toggles per-domain permission checks. Token
	// authentication is always enforced.
	EnforcePermissions bool

	// RateBurst and RatePerSec tune the per-IP limiter.
	RateBurst  int
	RatePerSec int
}

// Load builds a Config from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:         envOr("POYNTS_LISTEN_ADDR", defaultListenAddr),
		GRPCAddr:           envOr("POYNTS_GRPC_ADDR", defaultGRPCAddr),
		BackendAPIKey:      strings.TrimSpace(os.Getenv("POYNTS_BACKEND_API_KEY")),
		BackendAPIURL:      envOr("POYNTS_BACKEND_API_URL", DefaultBackendURL),
		PostgresDSN:        strings.TrimSpace(os.Getenv("POYNTS_PG_DSN")),
		UpstreamTimeout:    defaultUpstreamTimeout,
		EnforcePermissions: true,
		RateBurst:          20,
		RatePerSec:         10,
	}

	if raw := strings.TrimSpace(os.Getenv("POYNTS_UPSTREAM_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: parse POYNTS_UPSTREAM_TIMEOUT: %w", err)
		}
		cfg.UpstreamTimeout = d
	}
	if raw := strings.TrimSpace(os.Getenv("POYNTS_ENFORCE_PERMISSIONS")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: parse POYNTS_ENFORCE_PERMISSIONS: %w", err)
		}
		cfg.EnforcePermissions = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the startup invariants.
func (c Config) Validate() error {
	if c.BackendAPIKey == "" {
		return errors.New("config: POYNTS_BACKEND_API_KEY is required")
	}
	u, err := url.Parse(c.BackendAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: invalid backend URL %q", c.BackendAPIURL)
	}
	if c.UpstreamTimeout <= 0 {
		return errors.New("config: upstream timeout must be positive")
	}
	return nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
