package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/auth0/go-swt-middleware/internal/config"
	"github.com/auth0/go-swt-middleware/issuer"
	"github.com/auth0/go-swt-middleware/token"
)

func testUsers(t *testing.T) userStore {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	users, err := readUsers(strings.NewReader(`
users:
  - name: alice
    passwordHash: ` + string(hash) + `
    email: alice@example.com
    roles: [admin, reader]
`))
	require.NoError(t, err)
	return users
}

func TestReadUsers(t *testing.T) {
	users := testUsers(t)
	require.Len(t, users, 1)
	assert.Equal(t, []token.Claim{
		{Type: token.NameIdentifierClaimType, Value: "alice"},
		{Type: token.EmailClaimType, Value: "alice@example.com"},
		{Type: token.RoleClaimType, Value: "admin"},
		{Type: token.RoleClaimType, Value: "reader"},
	}, users["alice"].claims())

	_, err := readUsers(strings.NewReader("users:\n  - name: bob\n"))
	assert.Error(t, err)

	_, err = readUsers(strings.NewReader("users:\n  - name: a\n    passwordHash: x\n  - name: a\n    passwordHash: y\n"))
	assert.Error(t, err)

	_, err = readUsers(strings.NewReader("accounts: []\n"))
	assert.Error(t, err, "unknown fields are rejected")
}

func TestBasicAuthPrincipal(t *testing.T) {
	users := testUsers(t)

	tests := []struct {
		name     string
		user     string
		password string
		noAuth   bool
		wantErr  error
	}{
		{name: "it accepts the right password", user: "alice", password: "s3cret"},
		{name: "it rejects a wrong password", user: "alice", password: "nope", wantErr: issuer.ErrUnauthenticated},
		{name: "it rejects an unknown user", user: "mallory", password: "s3cret", wantErr: issuer.ErrUnauthenticated},
		{name: "it rejects a request without credentials", noAuth: true, wantErr: issuer.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if !tt.noAuth {
				req.SetBasicAuth(tt.user, tt.password)
			}
			claims, err := users.basicAuthPrincipal(req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, claims)
		})
	}
}

func TestBasicAuthPrincipal_UnknownUserStillCompares(t *testing.T) {
	users := testUsers(t)

	var compared [][]byte
	original := compareHash
	compareHash = func(hash, password []byte) error {
		compared = append(compared, hash)
		return original(hash, password)
	}
	t.Cleanup(func() { compareHash = original })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("mallory", "unknown-user-placeholder")
	_, err := users.basicAuthPrincipal(req)
	assert.ErrorIs(t, err, issuer.ErrUnauthenticated)

	require.Len(t, compared, 1)
	assert.Equal(t, unknownUserHash, compared[0])
}

func TestNewRouter(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	router, err := newRouter(config.IssuerConfig{
		Name:          "https://sts.example.com/",
		TokenLifetime: time.Hour,
		SigningKey:    "sts-signing-key",
	}, testUsers(t), log)
	require.NoError(t, err)

	t.Run("it reports health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("it challenges anonymous sign-in requests", func(t *testing.T) {
		q := url.Values{"wa": {"wsignin1.0"}, "wtrealm": {"https://app.example.com/"}}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?"+q.Encode(), nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, `Basic realm="https://sts.example.com/"`, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("it posts a token back to the relying party", func(t *testing.T) {
		q := url.Values{"wa": {"wsignin1.0"}, "wtrealm": {"https://app.example.com/"}}
		req := httptest.NewRequest(http.MethodGet, "/?"+q.Encode(), nil)
		req.SetBasicAuth("alice", "s3cret")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `action="https://app.example.com/"`)
		assert.Contains(t, body, `name="wresult"`)
	})

	t.Run("it rejects other methods", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
