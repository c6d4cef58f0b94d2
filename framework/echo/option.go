package swtecho

import (
	"github.com/labstack/echo/v4"

	swtmiddleware "github.com/auth0/go-swt-middleware"
)

// Option is a function that configures the middleware
type Option func(*echoMiddlewareConfig)

// WithErrorHandler sets a custom error handler. A returned error is passed
// on to echo's HTTPErrorHandler.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(config *echoMiddlewareConfig) {
		config.errorHandler = handler
	}
}

// WithContextKey sets a custom context key to store claims
func WithContextKey(key string) Option {
	return func(config *echoMiddlewareConfig) {
		config.contextKey = key
	}
}

// WithMiddlewareOptions forwards options to the underlying swtmiddleware.
func WithMiddlewareOptions(opts ...swtmiddleware.Option) Option {
	return func(config *echoMiddlewareConfig) {
		config.middlewareOpts = append(config.middlewareOpts, opts...)
	}
}
