package validator

import (
	"errors"
	"fmt"
	"time"

	"github.com/auth0/go-swt-middleware/keys"
)

// Option is how options for the Validator are set up.
// Options return errors to enable validation during construction.
type Option func(*Validator) error

// WithKeyResolver sets where verification keys come from. The token's
// Audience value is the lookup key. This is a required option.
func WithKeyResolver(resolver keys.Resolver) Option {
	return func(v *Validator) error {
		if resolver == nil {
			return errors.New("key resolver cannot be nil")
		}
		v.keys = resolver
		return nil
	}
}

// WithAllowedClockSkew sets the tolerance added to ExpiresOn before it is
// compared with the current time. The default is 0.
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Validator) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithAudience adds a single allowed audience.
func WithAudience(audience string) Option {
	return WithAudiences([]string{audience})
}

// WithAudiences adds allowed audiences. Entries are normalized the same way
// token audiences are, so "HTTPS://App.example.com?x=1" and
// "https://app.example.com/" are the same entry.
func WithAudiences(audiences []string) Option {
	return func(v *Validator) error {
		if len(audiences) == 0 {
			return errors.New("audiences cannot be empty")
		}
		for i, aud := range audiences {
			if aud == "" {
				return fmt.Errorf("audience at index %d cannot be empty", i)
			}
			normalized, err := NormalizeAudience(aud)
			if err != nil {
				return fmt.Errorf("audience at index %d is not a URI: %w", i, err)
			}
			v.audiences[normalized] = struct{}{}
		}
		return nil
	}
}

// WithAudienceMode sets whether the audience allow-list is enforced. The
// default is AudienceAlways.
func WithAudienceMode(mode AudienceMode) Option {
	return func(v *Validator) error {
		switch mode {
		case AudienceAlways, AudienceNever:
			v.audienceMode = mode
			return nil
		}
		return fmt.Errorf("unknown audience mode %d", int(mode))
	}
}

// WithIssuerNameRegistry sets the registry that maps a token's raw Issuer to
// the issuer name stamped on its claims.
func WithIssuerNameRegistry(registry IssuerNameRegistry) Option {
	return func(v *Validator) error {
		if registry == nil {
			return errors.New("issuer name registry cannot be nil")
		}
		v.issuers = registry
		return nil
	}
}

// WithRequireClaims controls whether a token without any non-reserved claim
// is rejected. The default is true.
func WithRequireClaims(require bool) Option {
	return func(v *Validator) error {
		v.requireClaims = require
		return nil
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		v.now = now
		return nil
	}
}
