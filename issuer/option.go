package issuer

import (
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/auth0/go-swt-middleware/core"
	"github.com/auth0/go-swt-middleware/scope"
	"github.com/auth0/go-swt-middleware/token"
)

const tracerName = "github.com/auth0/go-swt-middleware/issuer"

// Option configures a Service.
type Option func(*Service) error

// New builds a Service.
//
// Required options:
//   - WithIssuerName
//   - WithScopeResolver
func New(opts ...Option) (*Service, error) {
	s := &Service{
		lifetime: DefaultTokenLifetime,
		encoder:  token.NewEncoder(),
		now:      time.Now,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if s.name == "" {
		return nil, errors.New("issuer name is required (use WithIssuerName)")
	}
	if s.scopes == nil {
		return nil, errors.New("scope resolver is required (use WithScopeResolver)")
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s, nil
}

// WithIssuerName sets the Issuer value of issued tokens.
func WithIssuerName(name string) Option {
	return func(s *Service) error {
		if name == "" {
			return errors.New("issuer name cannot be empty")
		}
		s.name = name
		return nil
	}
}

// WithTokenLifetime sets how long issued tokens are valid.
func WithTokenLifetime(d time.Duration) Option {
	return func(s *Service) error {
		if d <= 0 {
			return errors.New("token lifetime must be positive")
		}
		s.lifetime = d
		return nil
	}
}

// WithScopeResolver sets the resolver for applies-to, reply-to and signing key.
func WithScopeResolver(r *scope.Resolver) Option {
	return func(s *Service) error {
		if r == nil {
			return errors.New("scope resolver cannot be nil")
		}
		s.scopes = r
		return nil
	}
}

// WithEncoder replaces the token encoder, e.g. to control token IDs.
func WithEncoder(e *token.Encoder) Option {
	return func(s *Service) error {
		if e == nil {
			return errors.New("encoder cannot be nil")
		}
		s.encoder = e
		return nil
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		s.now = now
		return nil
	}
}

// WithLogger sets an optional logger.
func WithLogger(logger core.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		s.logger = logger
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer. The default is the global
// provider's tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) error {
		if tracer == nil {
			return errors.New("tracer cannot be nil")
		}
		s.tracer = tracer
		return nil
	}
}
