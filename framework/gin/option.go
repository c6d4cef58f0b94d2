package swtgin

import (
	"github.com/gin-gonic/gin"

	swtmiddleware "github.com/auth0/go-swt-middleware"
)

// Option defines a functional option for configuring the middleware
type Option func(*GinMiddlewareConfig)

// WithErrorHandler sets a custom error handler for the middleware. The
// handler is responsible for writing the response and aborting c.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(config *GinMiddlewareConfig) {
		config.errorHandler = handler
	}
}

// WithContextKey sets the gin context key claims are stored under.
func WithContextKey(key string) Option {
	return func(config *GinMiddlewareConfig) {
		config.contextKey = key
	}
}

// WithMiddlewareOptions forwards options to the underlying swtmiddleware.
// A WithErrorHandler among them is ignored; use this package's WithErrorHandler.
func WithMiddlewareOptions(opts ...swtmiddleware.Option) Option {
	return func(config *GinMiddlewareConfig) {
		config.middlewareOpts = append(config.middlewareOpts, opts...)
	}
}
