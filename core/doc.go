/*
Package core provides the transport-agnostic SWT checking engine.

The engine sits between transport adapters (net/http, gin, echo, gRPC) and
the SWT validator:

	transport adapter  ->  core.Core (missing-token policy, logging)  ->  validator

# Basic Usage

	v, err := validator.New(
	    validator.WithKeyResolver(registry),
	    validator.WithAudiences([]string{"https://app.example.com/"}),
	    validator.WithIssuerNameRegistry(validator.PassthroughIssuers{}),
	)
	if err != nil {
	    log.Fatal(err)
	}

	c, err := core.New(core.WithValidator(v))
	if err != nil {
	    log.Fatal(err)
	}

	claims, err := c.CheckToken(ctx, wireToken)

# Errors

Every failure raised by the token codec, the validator and the scope resolver
is a *ValidationError carrying a stable code. Two class sentinels let callers
tell "not a token" apart from "a rejected token":

	switch {
	case errors.Is(err, core.ErrSWTMissing):
	    // nothing was presented
	case errors.Is(err, core.ErrSWTMalformed):
	    // token_malformed, signature_malformed, unsupported_encoding
	case errors.Is(err, core.ErrSWTInvalid):
	    // expired, bad signature, audience or issuer rejected, no claims
	case errors.Is(err, core.ErrConfiguration):
	    // key material or policy is missing on this side
	}

Per-kind sentinels (ErrExpired, ErrInvalidSignature, ...) match any
ValidationError with the same code.

# Context Helpers

	ctx = core.SetClaims(ctx, claims)
	claims, err := core.GetClaims[*validator.ValidatedClaims](ctx)
*/
package core
