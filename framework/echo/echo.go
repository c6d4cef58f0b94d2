// Package swtecho adapts the SWT middleware to echo.
package swtecho

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	swtmiddleware "github.com/auth0/go-swt-middleware"
	"github.com/auth0/go-swt-middleware/validator"
)

// DefaultClaimsKey is the echo context key claims are stored under.
var DefaultClaimsKey = "swt"

type echoContextKey struct{}

// echoMiddlewareConfig holds all configuration for the middleware
type echoMiddlewareConfig struct {
	errorHandler   func(echo.Context, error) error
	contextKey     string
	middlewareOpts []swtmiddleware.Option
}

// NewEchoMiddleware returns an echo middleware that validates the request's
// SWT and stores the claims under the configured context key.
func NewEchoMiddleware(v swtmiddleware.TokenValidator, opts ...Option) (echo.MiddlewareFunc, error) {
	config := &echoMiddlewareConfig{
		errorHandler: defaultEchoErrorHandler,
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
			st, ok := r.Context().Value(echoContextKey{}).(*requestState)
			if !ok {
				swtmiddleware.DefaultErrorHandler(w, r, err)
				return
			}
			st.err = config.errorHandler(st.c, err)
		}),
	)

	middleware, err := swtmiddleware.New(middlewareOpts...)
	if err != nil {
		return nil, err
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			st := &requestState{c: c}
			var handler http.HandlerFunc = func(_ http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)

				if claims, err := swtmiddleware.GetClaims[*validator.ValidatedClaims](r.Context()); err == nil {
					c.Set(config.contextKey, claims)
				}

				st.err = next(c)
			}

			req := c.Request().WithContext(context.WithValue(c.Request().Context(), echoContextKey{}, st))
			middleware.CheckSWT(handler).ServeHTTP(c.Response(), req)
			return st.err
		}
	}, nil
}

// requestState carries the echo context into the error handler and the
// handler's error back out of the net/http chain.
type requestState struct {
	c   echo.Context
	err error
}

func defaultEchoErrorHandler(c echo.Context, err error) error {
	swtmiddleware.DefaultErrorHandler(c.Response(), c.Request(), err)
	return nil
}

// GetClaims extracts the SWT claims from the echo context.
func GetClaims(c echo.Context, contextKey string) (*validator.ValidatedClaims, bool) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims := c.Get(contextKey)
	if claims == nil {
		return nil, false
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	return validatedClaims, ok
}
