package swtmiddleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Option configures the SWTMiddleware.
// Returns error for validation failures.
type Option func(*SWTMiddleware) error

// TokenValidator validates a wire token and returns its claims.
// *validator.Validator satisfies it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (any, error)
}

// ValidateTokenFunc adapts a function to TokenValidator.
type ValidateTokenFunc func(ctx context.Context, token string) (any, error)

// ValidateToken calls f.
func (f ValidateTokenFunc) ValidateToken(ctx context.Context, token string) (any, error) {
	return f(ctx, token)
}

// WithValidator sets the validator used for every request (REQUIRED).
func WithValidator(v TokenValidator) Option {
	return func(m *SWTMiddleware) error {
		if v == nil {
			return ErrValidatorNil
		}
		m.validator = v
		return nil
	}
}

// WithCredentialsOptional sets whether credentials are optional.
// If set to true, a request without a token reaches the next handler
// without claims.
//
// Default: false (credentials required)
func WithCredentialsOptional(value bool) Option {
	return func(m *SWTMiddleware) error {
		m.credentialsOptional = value
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests are validated.
//
// Default: true
func WithValidateOnOptions(value bool) Option {
	return func(m *SWTMiddleware) error {
		m.validateOnOptions = value
		return nil
	}
}

// WithErrorHandler sets the handler called when validation fails.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *SWTMiddleware) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		m.errorHandler = h
		return nil
	}
}

// WithTokenExtractor sets the function to extract the SWT from the request.
//
// Default: AuthHeaderTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(m *SWTMiddleware) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		m.tokenExtractor = e
		return nil
	}
}

// WithExclusionURLs skips validation for requests whose path or full URL
// starts with one of the given prefixes, compared case-insensitively.
func WithExclusionURLs(prefixes []string) Option {
	return func(m *SWTMiddleware) error {
		if len(prefixes) == 0 {
			return ErrExclusionURLsEmpty
		}
		lowered := make([]string, 0, len(prefixes))
		for _, p := range prefixes {
			if p != "" {
				lowered = append(lowered, strings.ToLower(p))
			}
		}
		if len(lowered) == 0 {
			return ErrExclusionURLsEmpty
		}
		m.exclusionURLHandler = func(r *http.Request) bool {
			path := strings.ToLower(r.URL.Path)
			full := strings.ToLower(r.URL.String())
			for _, p := range lowered {
				if strings.HasPrefix(path, p) || strings.HasPrefix(full, p) {
					return true
				}
			}
			return false
		}
		return nil
	}
}

// WithLogger sets an optional logger for the middleware.
// The logger will be used throughout the validation flow in both middleware and core.
func WithLogger(logger Logger) Option {
	return func(m *SWTMiddleware) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}

// WithTracer sets the tracer wrapping each validation in a span.
//
// Default: NoopTracer
func WithTracer(tracer Tracer) Option {
	return func(m *SWTMiddleware) error {
		if tracer == nil {
			return ErrTracerNil
		}
		m.tracer = tracer
		return nil
	}
}

// WithMetrics sets the recorder for validation outcomes.
//
// Default: NoopMetrics
func WithMetrics(metrics Metrics) Option {
	return func(m *SWTMiddleware) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		m.metrics = metrics
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrValidatorNil       = errors.New("validator cannot be nil (use WithValidator)")
	ErrErrorHandlerNil    = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil  = errors.New("tokenExtractor cannot be nil")
	ErrExclusionURLsEmpty = errors.New("exclusion URLs list cannot be empty")
	ErrLoggerNil          = errors.New("logger cannot be nil")
	ErrTracerNil          = errors.New("tracer cannot be nil")
	ErrMetricsNil         = errors.New("metrics cannot be nil")
)
