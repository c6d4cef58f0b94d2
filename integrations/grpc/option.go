package grpc

import (
	"errors"

	"github.com/auth0/go-swt-middleware/core"
)

// Option configures the SWT interceptor.
type Option func(*SWTInterceptor) error

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core for consistent logging across the stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// coreBuilder accumulates core options until New builds the core.
type coreBuilder struct {
	validator           core.Validator
	credentialsOptional *bool
	logger              Logger
}

func (b *coreBuilder) build() (*core.Core, error) {
	if b.validator == nil {
		return nil, errors.New("validator is required")
	}

	opts := []core.Option{
		core.WithValidator(b.validator),
	}
	if b.credentialsOptional != nil {
		opts = append(opts, core.WithCredentialsOptional(*b.credentialsOptional))
	}
	if b.logger != nil {
		opts = append(opts, core.WithLogger(b.logger))
	}

	return core.New(opts...)
}

func (i *SWTInterceptor) builder() *coreBuilder {
	if i.coreBuilder == nil {
		i.coreBuilder = &coreBuilder{}
	}
	return i.coreBuilder
}

// WithValidator sets the SWT validator (REQUIRED), usually a
// *validator.Validator.
//
// Example:
//
//	interceptor, _ := swtgrpc.New(
//	    swtgrpc.WithValidator(v),
//	    swtgrpc.WithLogger(logger),
//	)
func WithValidator(v core.Validator) Option {
	return func(i *SWTInterceptor) error {
		if v == nil {
			return errors.New("validator cannot be nil")
		}
		i.builder().validator = v
		return nil
	}
}

// WithCredentialsOptional allows requests without a token to proceed
// without claims.
//
// Default: false (credentials required)
func WithCredentialsOptional(optional bool) Option {
	return func(i *SWTInterceptor) error {
		i.builder().credentialsOptional = &optional
		return nil
	}
}

// WithLogger sets an optional logger used by the interceptor and the core.
func WithLogger(logger Logger) Option {
	return func(i *SWTInterceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.builder().logger = logger
		i.logger = logger
		return nil
	}
}

// WithTokenExtractor sets a custom token extractor function.
// Default is MetadataTokenExtractor.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *SWTInterceptor) error {
		if extractor == nil {
			return errors.New("token extractor cannot be nil")
		}
		i.tokenExtractor = extractor
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *SWTInterceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods excludes full method names ("/package.Service/Method")
// from validation.
func WithExcludedMethods(methods ...string) Option {
	return func(i *SWTInterceptor) error {
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}
