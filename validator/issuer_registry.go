package validator

import (
	"context"
	"fmt"

	"github.com/auth0/go-swt-middleware/core"
)

// IssuerNameRegistry maps the Issuer value found in a token to the issuer
// name attached to its claims. Returning an error rejects the token.
type IssuerNameRegistry interface {
	IssuerName(ctx context.Context, rawIssuer string) (string, error)
}

// IssuerNameFunc adapts a function to IssuerNameRegistry.
type IssuerNameFunc func(ctx context.Context, rawIssuer string) (string, error)

// IssuerName calls f.
func (f IssuerNameFunc) IssuerName(ctx context.Context, rawIssuer string) (string, error) {
	return f(ctx, rawIssuer)
}

// PassthroughIssuers accepts every issuer under its own name.
type PassthroughIssuers struct{}

// IssuerName returns rawIssuer.
func (PassthroughIssuers) IssuerName(_ context.Context, rawIssuer string) (string, error) {
	return rawIssuer, nil
}

// TrustedIssuers maps known raw issuers to canonical names. Any other issuer
// is rejected.
type TrustedIssuers map[string]string

// IssuerName returns the canonical name for rawIssuer.
func (t TrustedIssuers) IssuerName(_ context.Context, rawIssuer string) (string, error) {
	name, ok := t[rawIssuer]
	if !ok {
		return "", core.NewValidationError(
			core.ErrorCodeInvalidIssuer,
			fmt.Sprintf("issuer %q is not trusted", rawIssuer),
			nil,
		)
	}
	if name == "" {
		return rawIssuer, nil
	}
	return name, nil
}
