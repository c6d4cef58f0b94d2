package issuer

import (
	"context"
	"errors"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auth0/go-swt-middleware/keys"
	"github.com/auth0/go-swt-middleware/scope"
	"github.com/auth0/go-swt-middleware/token"
)

var wresultPattern = regexp.MustCompile(`name="wresult" value="([^"]*)"`)

func alice(*http.Request) ([]token.Claim, error) {
	return []token.Claim{{Type: token.NameIdentifierClaimType, Value: "alice"}}, nil
}

func registeredScopes(t *testing.T) *scope.Resolver {
	t.Helper()
	reg := keys.NewRegistry()
	reg.Register(appliesTo, signingKey)
	scopes, err := scope.NewResolver(scope.WithKeyResolver(reg))
	require.NoError(t, err)
	return scopes
}

func TestHandler_SignIn(t *testing.T) {
	h, err := NewHandler(newTestService(t), alice)
	require.NoError(t, err)

	q := (&SignInRequest{Realm: appliesTo, Reply: "/home", Context: "rm=0&id=7"}).Values()
	req := httptest.NewRequest(http.MethodGet, "/?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	body := rec.Body.String()
	assert.Contains(t, body, `action="https://app.example.com/home"`)
	assert.Contains(t, body, `name="wctx"`)

	m := wresultPattern.FindStringSubmatch(body)
	require.Len(t, m, 2, body)

	claims, err := newTestValidator(t).ValidateEnvelope(context.Background(), html.UnescapeString(m[1]))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Name())
}

func TestHandler(t *testing.T) {
	testCases := []struct {
		name             string
		principal        PrincipalFunc
		method           string
		query            string
		form             url.Values
		expectedStatus   int
		expectedLocation string
		expectedBody     string
		expectedHeader   string
	}{
		{
			name:           "it accepts a form post sign-in",
			method:         http.MethodPost,
			form:           url.Values{"wa": {"wsignin1.0"}, "wtrealm": {appliesTo}},
			expectedStatus: http.StatusOK,
			expectedBody:   `action="https://app.example.com/"`,
		},
		{
			name:           "it challenges when the principal is unknown",
			principal:      func(*http.Request) ([]token.Claim, error) { return nil, ErrUnauthenticated },
			query:          "wa=wsignin1.0&wtrealm=" + url.QueryEscape(appliesTo),
			expectedStatus: http.StatusUnauthorized,
			expectedHeader: `Basic realm="sts"`,
		},
		{
			name:           "it fails when the principal lookup breaks",
			principal:      func(*http.Request) ([]token.Claim, error) { return nil, errors.New("db down") },
			query:          "wa=wsignin1.0&wtrealm=" + url.QueryEscape(appliesTo),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "it requires a realm",
			query:          "wa=wsignin1.0",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "wtrealm is required",
		},
		{
			name:           "it requires an absolute realm",
			query:          "wa=wsignin1.0&wtrealm=app",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:             "it redirects sign-out to the realm when the reply is foreign",
			query:            "wa=wsignout1.0&wtrealm=" + url.QueryEscape(appliesTo) + "&wreply=" + url.QueryEscape("https://evil.example.org/"),
			expectedStatus:   http.StatusFound,
			expectedLocation: appliesTo,
		},
		{
			name:             "it redirects sign-out to a same host reply",
			query:            "wa=wsignout1.0&wtrealm=" + url.QueryEscape(appliesTo) + "&wreply=%2Fbye",
			expectedStatus:   http.StatusFound,
			expectedLocation: "https://app.example.com/bye",
		},
		{
			name:             "it ignores an unregistered realm on sign-out",
			query:            "wa=wsignout1.0&wtrealm=" + url.QueryEscape("https://evil.example.org/") + "&wreply=" + url.QueryEscape("https://evil.example.org/x"),
			expectedStatus:   http.StatusFound,
			expectedLocation: "http://example.com/",
		},
		{
			name:             "it redirects sign-out without a realm to itself",
			query:            "wa=wsignout1.0&wreply=%2Fbye",
			expectedStatus:   http.StatusFound,
			expectedLocation: "http://example.com/bye",
		},
		{
			name:             "it redirects a bare reply relative to itself",
			query:            "wreply=%2Fafter",
			expectedStatus:   http.StatusFound,
			expectedLocation: "http://example.com/after",
		},
		{
			name:           "it reports it is running",
			expectedStatus: http.StatusOK,
			expectedBody:   "SWT issuer https://sts.example.com/ is running.",
		},
		{
			name:           "it rejects an unknown action",
			query:          "wa=wattr1.0",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			principal := testCase.principal
			if principal == nil {
				principal = alice
			}
			h, err := NewHandler(newTestService(t, WithScopeResolver(registeredScopes(t))), principal, WithChallenge(`Basic realm="sts"`))
			require.NoError(t, err)

			method := testCase.method
			if method == "" {
				method = http.MethodGet
			}
			var req *http.Request
			if testCase.form != nil {
				req = httptest.NewRequest(method, "/", strings.NewReader(testCase.form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			} else {
				req = httptest.NewRequest(method, "/?"+testCase.query, nil)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, testCase.expectedStatus, rec.Code)
			if testCase.expectedLocation != "" {
				assert.Equal(t, testCase.expectedLocation, rec.Header().Get("Location"))
			}
			if testCase.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), testCase.expectedBody)
			}
			if testCase.expectedHeader != "" {
				assert.Equal(t, testCase.expectedHeader, rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestParseSignInRequest(t *testing.T) {
	req, err := ParseSignInRequest(url.Values{
		"wa":      {"wsignin1.0"},
		"wtrealm": {appliesTo},
		"wreply":  {"/x"},
		"wctx":    {"c"},
	})
	require.NoError(t, err)
	assert.Equal(t, &SignInRequest{Realm: appliesTo, Reply: "/x", Context: "c"}, req)

	_, err = ParseSignInRequest(url.Values{"wa": {"wsignout1.0"}})
	assert.Error(t, err)
}

func TestNewHandler(t *testing.T) {
	_, err := NewHandler(nil, alice)
	assert.EqualError(t, err, "service cannot be nil")

	_, err = NewHandler(newTestService(t), nil)
	assert.EqualError(t, err, "principal func cannot be nil")
}
