package swtmiddleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/auth0/go-swt-middleware/core"
)

// SWTMiddleware protects an http.Handler with SWT validation.
type SWTMiddleware struct {
	core                *core.Core
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	validateOnOptions   bool
	exclusionURLHandler ExclusionURLHandler
	logger              Logger
	tracer              Tracer
	metrics             Metrics

	// Temporary fields used during construction
	validator           TokenValidator
	credentialsOptional bool
}

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core for consistent logging across the stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ExclusionURLHandler reports whether r skips validation.
type ExclusionURLHandler func(r *http.Request) bool

// New constructs a new SWTMiddleware instance with the supplied options.
//
// Example:
//
//	middleware, err := swtmiddleware.New(
//	    swtmiddleware.WithValidator(v),
//	    swtmiddleware.WithTokenExtractor(swtmiddleware.MultiTokenExtractor(
//	        swtmiddleware.AuthHeaderTokenExtractor,
//	        swtmiddleware.FormPostTokenExtractor,
//	    )),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create middleware: %v", err)
//	}
func New(opts ...Option) (*SWTMiddleware, error) {
	m := &SWTMiddleware{
		validateOnOptions:   true,
		credentialsOptional: false,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if m.validator == nil {
		return nil, fmt.Errorf("invalid middleware configuration: %w", ErrValidatorNil)
	}

	m.applyDefaults()

	if err := m.createCore(); err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}

	return m, nil
}

func (m *SWTMiddleware) createCore() error {
	coreOpts := []core.Option{
		core.WithValidator(m.validator),
		core.WithCredentialsOptional(m.credentialsOptional),
	}
	if m.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(m.logger))
	}

	c, err := core.New(coreOpts...)
	if err != nil {
		return err
	}
	m.core = c
	return nil
}

func (m *SWTMiddleware) applyDefaults() {
	if m.errorHandler == nil {
		m.errorHandler = DefaultErrorHandler
	}
	if m.tokenExtractor == nil {
		m.tokenExtractor = AuthHeaderTokenExtractor
	}
	if m.tracer == nil {
		m.tracer = NoopTracer{}
	}
	if m.metrics == nil {
		m.metrics = NoopMetrics{}
	}
}

// GetClaims retrieves claims from the context with type safety using generics.
//
// Example:
//
//	claims, err := swtmiddleware.GetClaims[*validator.ValidatedClaims](r.Context())
//	if err != nil {
//	    http.Error(w, "failed to get claims", http.StatusInternalServerError)
//	    return
//	}
//	fmt.Println(claims.Name())
func GetClaims[T any](ctx context.Context) (T, error) {
	return core.GetClaims[T](ctx)
}

// MustGetClaims retrieves claims from the context or panics.
// Use only when you are certain claims exist (e.g., after middleware has run).
func MustGetClaims[T any](ctx context.Context) T {
	claims, err := core.GetClaims[T](ctx)
	if err != nil {
		panic(err)
	}
	return claims
}

// HasClaims checks if claims exist in the context.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}

// CheckSWT is the main SWTMiddleware function which performs the main logic. It
// is passed a http.Handler which will be called if the SWT passes validation.
func (m *SWTMiddleware) CheckSWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.exclusionURLHandler != nil && m.exclusionURLHandler(r) {
			if m.logger != nil {
				m.logger.Debug("skipping SWT validation for excluded URL",
					"method", r.Method,
					"path", r.URL.Path)
			}
			next.ServeHTTP(w, r)
			return
		}
		if !m.validateOnOptions && r.Method == http.MethodOptions {
			if m.logger != nil {
				m.logger.Debug("skipping SWT validation for OPTIONS request")
			}
			next.ServeHTTP(w, r)
			return
		}

		token, err := m.tokenExtractor(r)
		if err != nil {
			// An extractor error means a token was presented but could not be
			// read, which is not the same as a missing token.
			if m.logger != nil {
				m.logger.Warn("failed to extract token from request",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path)
			}
			m.metrics.ObserveValidation(outcomeRejected, errorCode(err), 0)
			m.errorHandler(w, r, err)
			return
		}

		ctx, span := m.tracer.Start(r.Context(), "swt.validate")
		defer span.End()

		start := time.Now()
		validToken, err := m.core.CheckToken(ctx, token)
		elapsed := time.Since(start)

		if err != nil {
			code := errorCode(err)
			span.SetAttribute("swt.error_code", code)
			span.RecordError(err)
			m.metrics.ObserveValidation(outcomeRejected, code, elapsed)
			m.errorHandler(w, r, err)
			return
		}

		if validToken == nil {
			if m.logger != nil {
				m.logger.Debug("no credentials provided, continuing without claims (credentials optional)")
			}
			m.metrics.ObserveValidation(outcomeAnonymous, "", elapsed)
			next.ServeHTTP(w, r)
			return
		}

		m.metrics.ObserveValidation(outcomeAccepted, "", elapsed)
		next.ServeHTTP(w, r.Clone(core.SetClaims(ctx, validToken)))
	})
}
