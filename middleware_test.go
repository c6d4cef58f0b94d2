package swtmiddleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/auth0/go-swt-middleware/token"
	"github.com/auth0/go-swt-middleware/validator"
)

var claimsEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	claims, err := GetClaims[*validator.ValidatedClaims](r.Context())
	if err != nil {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(claims.Name()))
})

func Test_CheckSWT(t *testing.T) {
	validToken := mintToken(t, nil)
	expiredToken := mintToken(t, func(d *token.Descriptor) {
		d.ExpiresOn = time.Now().Add(-time.Hour)
	})
	foreignToken := mintToken(t, func(d *token.Descriptor) {
		d.Audience = "https://other.example.com/"
	})

	envelope, err := token.Envelope("id-1", validToken)
	require.NoError(t, err)

	testCases := []struct {
		name          string
		method        string
		path          string
		authHeader    string
		form          url.Values
		options       []Option
		wantStatus    int
		wantBody      string
		wantErrorCode string
		wantChallenge string
	}{
		{
			name:       "it accepts a valid bearer token",
			authHeader: "Bearer " + token.EncodeCompact(validToken),
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:       "it accepts a valid WRAP token",
			authHeader: `WRAP access_token="` + url.QueryEscape(validToken) + `"`,
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:          "it challenges when the token is missing",
			wantStatus:    http.StatusUnauthorized,
			wantChallenge: "Bearer",
		},
		{
			name:       "it continues without claims when credentials are optional",
			options:    []Option{WithCredentialsOptional(true)},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name:          "it rejects an expired token",
			authHeader:    "Bearer " + token.EncodeCompact(expiredToken),
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "token_expired",
		},
		{
			name:          "it rejects a token for an unknown audience",
			authHeader:    "Bearer " + token.EncodeCompact(foreignToken),
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "unknown_audience",
		},
		{
			name:          "it rejects a tampered token",
			authHeader:    "Bearer " + token.EncodeCompact(strings.Replace(validToken, "=alice", "=mallory", 1)),
			wantStatus:    http.StatusUnauthorized,
			wantErrorCode: "invalid_signature",
		},
		{
			name:          "it rejects a token that is not base64",
			authHeader:    "Bearer ***",
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "token_malformed",
		},
		{
			name:          "it rejects an unknown scheme",
			authHeader:    "Basic YWxpY2U6c2VjcmV0",
			wantStatus:    http.StatusBadRequest,
			wantErrorCode: "invalid_request",
		},
		{
			name:       "it skips OPTIONS when configured",
			method:     http.MethodOptions,
			options:    []Option{WithValidateOnOptions(false)},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name:       "it validates OPTIONS by default",
			method:     http.MethodOptions,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "it skips excluded paths case-insensitively",
			path:       "/public/info",
			options:    []Option{WithExclusionURLs([]string{"/Public"})},
			wantStatus: http.StatusOK,
			wantBody:   "anonymous",
		},
		{
			name:   "it accepts a WS-Federation form post",
			method: http.MethodPost,
			form:   url.Values{"wa": {"wsignin1.0"}, "wresult": {envelope}},
			options: []Option{WithTokenExtractor(MultiTokenExtractor(
				AuthHeaderTokenExtractor,
				FormPostTokenExtractor,
			))},
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			opts := append([]Option{WithValidator(newTestValidator(t))}, testCase.options...)
			m, err := New(opts...)
			require.NoError(t, err)

			method := testCase.method
			if method == "" {
				method = http.MethodGet
			}
			path := testCase.path
			if path == "" {
				path = "/api"
			}

			var req *http.Request
			if testCase.form != nil {
				req = httptest.NewRequest(method, path, strings.NewReader(testCase.form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			} else {
				req = httptest.NewRequest(method, path, nil)
			}
			if testCase.authHeader != "" {
				req.Header.Set("Authorization", testCase.authHeader)
			}

			rec := httptest.NewRecorder()
			m.CheckSWT(claimsEcho).ServeHTTP(rec, req)

			assert.Equal(t, testCase.wantStatus, rec.Code)
			if testCase.wantBody != "" {
				assert.Equal(t, testCase.wantBody, rec.Body.String())
			}
			if testCase.wantChallenge != "" {
				assert.Equal(t, testCase.wantChallenge, rec.Header().Get("WWW-Authenticate"))
			}
			if testCase.wantErrorCode != "" {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, testCase.wantErrorCode, resp.ErrorCode)
			}
		})
	}
}

func Test_CheckSWT_Observability(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	logger := &mockLogger{}
	m, err := New(
		WithValidator(newTestValidator(t)),
		WithMetrics(metrics),
		WithLogger(logger),
		WithTracer(NewOpenTelemetryTracer(noop.NewTracerProvider().Tracer("test"))),
	)
	require.NoError(t, err)
	h := m.CheckSWT(claimsEcho)

	ok := httptest.NewRequest(http.MethodGet, "/", nil)
	ok.Header.Set("Authorization", "Bearer "+token.EncodeCompact(mintToken(t, nil)))
	h.ServeHTTP(httptest.NewRecorder(), ok)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.validations.WithLabelValues(outcomeAccepted, "")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.validations.WithLabelValues(outcomeRejected, "token_missing")))
	assert.NotEmpty(t, logger.warnCalls)
	assert.NotEmpty(t, logger.debugCalls)

	_, err = NewPrometheusMetrics(reg)
	assert.Error(t, err, "registering twice must fail")
}

func Test_ClaimsHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, HasClaims(req.Context()))
	assert.Panics(t, func() { MustGetClaims[*validator.ValidatedClaims](req.Context()) })

	var got *validator.ValidatedClaims
	m, err := New(WithValidator(newTestValidator(t)))
	require.NoError(t, err)

	req.Header.Set("Authorization", "Bearer "+token.EncodeCompact(mintToken(t, nil)))
	m.CheckSWT(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		assert.True(t, HasClaims(r.Context()))
		got = MustGetClaims[*validator.ValidatedClaims](r.Context())
	})).ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, testIssuer, got.Issuer)
	assert.Equal(t, "alice", got.Name())
}
