package issuer

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/auth0/go-swt-middleware/core"
	"github.com/auth0/go-swt-middleware/scope"
	"github.com/auth0/go-swt-middleware/token"
)

// DefaultTokenLifetime is how long issued tokens stay valid unless
// WithTokenLifetime says otherwise.
const DefaultTokenLifetime = 2 * time.Hour

// Request asks for a token.
type Request struct {
	// AppliesTo is the relying party, as an absolute URI. It becomes the
	// token audience.
	AppliesTo string
	// ReplyTo is where the caller wants the token delivered. Optional.
	ReplyTo string
	// Claims describe the principal, in order.
	Claims []token.Claim
}

// Response is an issued token.
type Response struct {
	Scope *scope.Scope
	// Token is the signed wire form.
	Token string
	// Envelope is Token inside a binarySecurityToken element.
	Envelope  string
	ID        string
	ExpiresOn time.Time
}

// Service issues tokens.
type Service struct {
	name     string
	lifetime time.Duration
	scopes   *scope.Resolver
	encoder  *token.Encoder
	now      func() time.Time
	logger   core.Logger
	tracer   trace.Tracer
}

// Issue resolves the scope of req, then encodes and signs a token for it.
// The token is valid from now until now plus the configured lifetime.
func (s *Service) Issue(ctx context.Context, req Request) (*Response, error) {
	ctx, span := s.tracer.Start(ctx, "swt.issue", trace.WithAttributes(
		attribute.String("swt.applies_to", req.AppliesTo),
	))
	defer span.End()

	sc, err := s.scopes.Resolve(ctx, req.AppliesTo, req.ReplyTo)
	if err != nil {
		return nil, s.fail(span, "Scope resolution failed", req, err)
	}
	if err := token.CheckClaims(req.Claims); err != nil {
		return nil, s.fail(span, "Claim set rejected", req, err)
	}

	now := s.now()
	expiresOn := now.Add(s.lifetime)
	tok := s.encoder.Build(token.Descriptor{
		Issuer:    s.name,
		Audience:  sc.AppliesTo,
		ValidFrom: now,
		ExpiresOn: expiresOn,
		Claims:    req.Claims,
	})

	wire, err := token.SignToken(tok, sc.SigningKey)
	if err != nil {
		return nil, s.fail(span, "Token signing failed", req, err)
	}

	envelope, err := token.Envelope(tok.ID(), wire)
	if err != nil {
		return nil, s.fail(span, "Token envelope failed", req, err)
	}

	span.SetAttributes(attribute.String("swt.id", tok.ID()))
	if s.logger != nil {
		s.logger.Info("Token issued",
			"id", tok.ID(),
			"audience", sc.AppliesTo,
			"replyTo", sc.ReplyTo,
			"claims", len(req.Claims),
			"expiresOn", expiresOn.UTC().Format(time.RFC3339))
	}

	return &Response{
		Scope:     sc,
		Token:     wire,
		Envelope:  envelope,
		ID:        tok.ID(),
		ExpiresOn: expiresOn.Truncate(time.Second),
	}, nil
}

func (s *Service) fail(span trace.Span, msg string, req Request, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, core.CodeOf(err))
	if s.logger != nil {
		s.logger.Warn(msg,
			"appliesTo", req.AppliesTo,
			"error", err,
			"code", core.CodeOf(err))
	}
	return err
}

// Name returns the issuer name stamped on tokens.
func (s *Service) Name() string { return s.name }
