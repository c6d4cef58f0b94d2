package core

import (
	"context"
	"time"
)

// Validator validates a wire token and returns the validated claims.
// *validator.Validator satisfies it.
type Validator interface {
	ValidateToken(ctx context.Context, token string) (any, error)
}

// Logger defines an optional logging interface for the core engine.
// It is compatible with *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Core runs token checks independently of how the token was transported.
type Core struct {
	validator           Validator
	credentialsOptional bool
	logger              Logger
}

// CheckToken validates a wire token and returns the validated claims.
//
//   - An empty token with credentialsOptional returns (nil, nil).
//   - An empty token otherwise returns ErrSWTMissing.
//   - Any other token is handed to the validator and its error, if any, is
//     returned unchanged so callers can inspect the ValidationError code.
func (c *Core) CheckToken(ctx context.Context, token string) (any, error) {
	if token == "" {
		if c.credentialsOptional {
			c.debug("No token provided, but credentials are optional")
			return nil, nil
		}
		if c.logger != nil {
			c.logger.Warn("No token provided and credentials are required")
		}
		return nil, ErrSWTMissing
	}

	start := time.Now()
	claims, err := c.validator.ValidateToken(ctx, token)
	duration := time.Since(start)

	if err != nil {
		if c.logger != nil {
			c.logger.Error("Token validation failed",
				"error", err,
				"code", CodeOf(err),
				"duration", duration)
		}
		return nil, err
	}

	c.debug("Token validated successfully", "duration", duration)
	return claims, nil
}

func (c *Core) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
