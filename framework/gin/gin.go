// Package swtgin adapts the SWT middleware to gin.
package swtgin

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	swtmiddleware "github.com/auth0/go-swt-middleware"
	"github.com/auth0/go-swt-middleware/validator"
)

// DefaultClaimsKey is the gin context key claims are stored under.
const DefaultClaimsKey = "swt"

var (
	// ErrMissingClaims is returned by GetClaims when nothing is stored under the key.
	ErrMissingClaims = errors.New("no SWT claims found in context")
	// ErrInvalidClaims is returned by GetClaims when the stored value is not
	// a *validator.ValidatedClaims.
	ErrInvalidClaims = errors.New("invalid SWT claims type")
)

type ginContextKey struct{}

// GinMiddlewareConfig holds the settings applied by Option.
type GinMiddlewareConfig struct {
	errorHandler   func(*gin.Context, error)
	contextKey     string
	middlewareOpts []swtmiddleware.Option
}

// NewGinMiddleware creates a gin middleware for SWT authentication. The
// validator is usually a *validator.Validator. Extra swtmiddleware options
// (extractors, exclusions, logging) are passed with WithMiddlewareOptions.
func NewGinMiddleware(v swtmiddleware.TokenValidator, opts ...Option) (gin.HandlerFunc, error) {
	config := &GinMiddlewareConfig{
		errorHandler: defaultGinErrorHandler,
		contextKey:   DefaultClaimsKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	middlewareOpts := append([]swtmiddleware.Option{
		swtmiddleware.WithValidator(v),
	}, config.middlewareOpts...)
	middlewareOpts = append(middlewareOpts,
		swtmiddleware.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			c, ok := r.Context().Value(ginContextKey{}).(*gin.Context)
			if !ok || c == nil {
				swtmiddleware.DefaultErrorHandler(w, r, err)
				return
			}
			config.errorHandler(c, err)
		}),
	)

	middleware, err := swtmiddleware.New(middlewareOpts...)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		encounteredError := true
		var handler http.HandlerFunc = func(_ http.ResponseWriter, r *http.Request) {
			encounteredError = false
			c.Request = r

			if claims, err := swtmiddleware.GetClaims[*validator.ValidatedClaims](r.Context()); err == nil {
				c.Set(config.contextKey, claims)
			}

			c.Next()
		}

		req := c.Request.WithContext(context.WithValue(c.Request.Context(), ginContextKey{}, c))
		middleware.CheckSWT(handler).ServeHTTP(c.Writer, req)

		if encounteredError {
			c.Abort()
		}
	}, nil
}

func defaultGinErrorHandler(c *gin.Context, err error) {
	swtmiddleware.DefaultErrorHandler(c.Writer, c.Request, err)
	c.Abort()
}

// GetClaims returns the claims stored by the middleware under contextKey
// (DefaultClaimsKey when empty).
func GetClaims(c *gin.Context, contextKey string) (*validator.ValidatedClaims, error) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingClaims
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return validatedClaims, nil
}
