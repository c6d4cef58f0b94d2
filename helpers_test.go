package swtmiddleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/auth0/go-swt-middleware/keys"
	"github.com/auth0/go-swt-middleware/token"
	"github.com/auth0/go-swt-middleware/validator"
)

const (
	testIssuer   = "https://sts.example.com/"
	testAudience = "https://app.example.com/"
)

var testKey = []byte("middleware-test-key-0123456789ab")

func mintToken(t *testing.T, mutate func(*token.Descriptor)) string {
	t.Helper()
	d := token.Descriptor{
		Issuer:    testIssuer,
		Audience:  testAudience,
		ValidFrom: time.Now().Add(-time.Minute),
		ExpiresOn: time.Now().Add(time.Hour),
		Claims:    []token.Claim{{Type: token.NameClaimType, Value: "alice"}},
	}
	if mutate != nil {
		mutate(&d)
	}
	wire, err := token.Encode(d, testKey)
	require.NoError(t, err)
	return wire
}

func newTestValidator(t *testing.T) *validator.Validator {
	t.Helper()
	reg := keys.NewRegistry()
	reg.Register(testAudience, testKey)
	v, err := validator.New(
		validator.WithKeyResolver(reg),
		validator.WithAudience(testAudience),
		validator.WithIssuerNameRegistry(validator.PassthroughIssuers{}),
	)
	require.NoError(t, err)
	return v
}

// mockLogger is a test implementation of the Logger interface
type mockLogger struct {
	debugCalls [][]any
	infoCalls  [][]any
	warnCalls  [][]any
	errorCalls [][]any
}

func (m *mockLogger) Debug(msg string, args ...any) {
	m.debugCalls = append(m.debugCalls, append([]any{msg}, args...))
}

func (m *mockLogger) Info(msg string, args ...any) {
	m.infoCalls = append(m.infoCalls, append([]any{msg}, args...))
}

func (m *mockLogger) Warn(msg string, args ...any) {
	m.warnCalls = append(m.warnCalls, append([]any{msg}, args...))
}

func (m *mockLogger) Error(msg string, args ...any) {
	m.errorCalls = append(m.errorCalls, append([]any{msg}, args...))
}
