package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"

	"github.com/auth0/go-swt-middleware/keys"
	"github.com/auth0/go-swt-middleware/token"
	"github.com/auth0/go-swt-middleware/validator"
)

const (
	issuer   = "https://sts.example.com/"
	audience = "https://grpc.example.com/"
)

var signingKey = []byte("grpc-interceptor-test-key-012345")

func buildTestToken(t *testing.T, aud string, expiresOn time.Time) string {
	t.Helper()
	wire, err := token.Encode(token.Descriptor{
		Issuer:    issuer,
		Audience:  aud,
		ExpiresOn: expiresOn,
		Claims:    []token.Claim{{Type: token.NameClaimType, Value: "carol"}},
	}, signingKey)
	require.NoError(t, err)
	return token.EncodeCompact(wire)
}

func incoming(pairs ...string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(pairs...))
}

func createTestValidator(t *testing.T) *validator.Validator {
	t.Helper()
	reg := keys.NewRegistry()
	reg.Register(audience, signingKey)
	reg.Register("https://other.example.com/", signingKey)

	v, err := validator.New(
		validator.WithKeyResolver(reg),
		validator.WithAudience(audience),
		validator.WithIssuerNameRegistry(validator.TrustedIssuers{issuer: "sts"}),
	)
	require.NoError(t, err)
	return v
}
