package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/auth0/go-swt-middleware/internal/config"
	"github.com/auth0/go-swt-middleware/keys"
	"github.com/auth0/go-swt-middleware/token"
)

const (
	appAudience = "https://app.example.com/"
	stsIssuer   = "https://sts.example.com/"
)

var appKey = []byte("relying-party-test-key-012345678")

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	reg := keys.NewRegistry()
	reg.Register(appAudience, appKey)

	promReg := prometheus.NewRegistry()
	h, err := newRouter(deps{
		config: config.RelyingPartyConfig{
			Audiences:      []string{appAudience},
			ClockSkew:      5 * time.Minute,
			TrustedIssuers: map[string]string{stsIssuer: "sts"},
		},
		keys:     reg,
		logger:   zap.NewNop(),
		registry: promReg,
		gatherer: promReg,
		tracer:   noop.NewTracerProvider().Tracer("test"),
	})
	require.NoError(t, err)
	return h
}

func issue(t *testing.T, iss string) string {
	t.Helper()
	wire, err := token.Encode(token.Descriptor{
		Issuer:    iss,
		Audience:  appAudience,
		ExpiresOn: time.Now().Add(time.Hour),
		Claims: []token.Claim{
			{Type: token.NameIdentifierClaimType, Value: "alice"},
			{Type: token.RoleClaimType, Value: "admin"},
		},
	}, appKey)
	require.NoError(t, err)
	return wire
}

func TestWhoami(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "it answers with the caller's claims", authHeader: "Bearer " + token.EncodeCompact(issue(t, stsIssuer)), wantStatus: http.StatusOK},
		{name: "it rejects an untrusted issuer", authHeader: "Bearer " + token.EncodeCompact(issue(t, "https://evil.example.com/")), wantStatus: http.StatusForbidden},
		{name: "it rejects an anonymous caller", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp whoamiResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "alice", resp.Name)
			assert.Equal(t, "sts", resp.Issuer)
			assert.Equal(t, []string{"admin"}, resp.Roles)
		})
	}
}

func TestSignInCallback(t *testing.T) {
	srv := newTestServer(t)

	wire := issue(t, stsIssuer)
	envelope, err := token.Envelope("uuid-1", wire)
	require.NoError(t, err)

	form := url.Values{"wa": {"wsignin1.0"}, "wresult": {envelope}, "wctx": {"/api/whoami?x=1"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/api/whoami?x=1", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	t.Run("it accepts the session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	for _, wctx := range []string{
		"//evil.example.com/",
		"/\\evil.example.org/phish",
		"/\\/evil.example.org/",
		"https://evil.example.com/",
	} {
		t.Run("it does not redirect off-site to "+wctx, func(t *testing.T) {
			form.Set("wctx", wctx)
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			assert.Equal(t, "/api/whoami", rec.Header().Get("Location"))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/whoami", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `swt_validations_total{code="token_missing",outcome="rejected"} 1`)
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_localTarget(t *testing.T) {
	testCases := []struct {
		name   string
		target string
		want   string
	}{
		{name: "it keeps a local path", target: "/api/whoami?x=1", want: "/api/whoami?x=1"},
		{name: "it falls back on empty", target: "", want: "/api/whoami"},
		{name: "it rejects a scheme-relative URL", target: "//evil.example.com/", want: "/api/whoami"},
		{name: "it rejects a backslash host", target: "/\\evil.example.org/phish", want: "/api/whoami"},
		{name: "it rejects a leading backslash", target: "\\\\evil.example.org/", want: "/api/whoami"},
		{name: "it rejects an absolute URL", target: "https://evil.example.com/", want: "/api/whoami"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, localTarget(tc.target))
		})
	}
}
