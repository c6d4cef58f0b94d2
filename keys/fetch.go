package keys

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// FetchOption configures FetchJWKSet.
type FetchOption func(*fetchConfig) error

type fetchConfig struct {
	client *http.Client
}

// WithHTTPClient sets the client used to fetch the key set. The default
// client times out after 30 seconds.
func WithHTTPClient(c *http.Client) FetchOption {
	return func(cfg *fetchConfig) error {
		if c == nil {
			return fmt.Errorf("http client cannot be nil")
		}
		cfg.client = c
		return nil
	}
}

// FetchJWKSet downloads a JWK Set of oct keys (kid = audience) and builds a
// Registry from it. The set is read once; restart to pick up new keys.
func FetchJWKSet(ctx context.Context, uri string, opts ...FetchOption) (*Registry, error) {
	cfg := &fetchConfig{
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	u, err := url.Parse(uri)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, fmt.Errorf("invalid JWK set URI %q", uri)
	}

	set, err := jwk.Fetch(ctx, u.String(), jwk.WithHTTPClient(cfg.client))
	if err != nil {
		return nil, fmt.Errorf("could not fetch JWK set: %w", err)
	}
	return fromSet(set)
}

// Load builds a Registry from source: an http(s) URL is fetched as a JWK
// Set, anything else is read with LoadFile.
func Load(ctx context.Context, source string, opts ...FetchOption) (*Registry, error) {
	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return FetchJWKSet(ctx, source, opts...)
	}
	return LoadFile(source)
}
