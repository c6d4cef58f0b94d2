package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"

	"github.com/auth0/go-swt-middleware/core"
)

// SWTInterceptor provides SWT validation for gRPC servers.
type SWTInterceptor struct {
	core            *core.Core
	tokenExtractor  TokenExtractor
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
	logger          Logger

	coreBuilder *coreBuilder
}

// New creates a new gRPC SWT interceptor. WithValidator is required.
func New(opts ...Option) (*SWTInterceptor, error) {
	interceptor := &SWTInterceptor{
		tokenExtractor:  MetadataTokenExtractor,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, err
		}
	}

	if interceptor.coreBuilder == nil || interceptor.coreBuilder.validator == nil {
		return nil, errors.New("validator is required, use WithValidator option")
	}

	c, err := interceptor.coreBuilder.build()
	if err != nil {
		return nil, err
	}
	interceptor.core = c

	return interceptor, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that validates
// the request's SWT and stores the claims in the handler's context.
func (i *SWTInterceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if i.excludedMethods[info.FullMethod] {
			i.debug("skipping SWT validation for excluded method", "method", info.FullMethod)
			return handler(ctx, req)
		}

		validatedCtx, err := i.validateRequest(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}

		return handler(validatedCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that
// validates the stream's SWT and stores the claims in the stream context.
func (i *SWTInterceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excludedMethods[info.FullMethod] {
			i.debug("skipping SWT validation for excluded method", "method", info.FullMethod)
			return handler(srv, ss)
		}

		validatedCtx, err := i.validateRequest(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}

		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: validatedCtx})
	}
}

func (i *SWTInterceptor) validateRequest(ctx context.Context, method string) (context.Context, error) {
	tok, err := i.tokenExtractor(ctx)
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("failed to extract token from gRPC metadata",
				"error", err,
				"method", method)
		}
		return ctx, i.errorHandler(err)
	}

	claims, err := i.core.CheckToken(ctx, tok)
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("SWT validation failed",
				"error", err,
				"method", method)
		}
		return ctx, i.errorHandler(err)
	}

	if claims == nil {
		i.debug("no credentials provided, continuing without claims (credentials optional)", "method", method)
		return ctx, nil
	}

	return core.SetClaims(ctx, claims), nil
}

func (i *SWTInterceptor) debug(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Debug(msg, args...)
	}
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context with SWT claims.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
