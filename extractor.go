package swtmiddleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/auth0/go-swt-middleware/core"
	"github.com/auth0/go-swt-middleware/token"
)

// TokenExtractor is a function that takes a request as input and returns
// either a wire token or an error. An error should only be returned if an
// attempt to specify a token was found, but the information was somehow
// incorrectly formed. In the case where a token is simply not present, this
// should not be treated as an error. An empty string should be returned in
// that case.
type TokenExtractor func(r *http.Request) (string, error)

// AuthHeaderTokenExtractor reads the Authorization header. Two schemes are
// understood:
//
//	Authorization: Bearer <base64 of the wire token>
//	Authorization: WRAP access_token="<url-encoded wire token>"
func AuthHeaderTokenExtractor(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", nil
	}

	scheme, credentials, _ := strings.Cut(strings.TrimSpace(authHeader), " ")
	credentials = strings.TrimSpace(credentials)

	switch strings.ToLower(scheme) {
	case "bearer":
		if credentials == "" || strings.ContainsAny(credentials, " \t") {
			return "", badRequest("Authorization header format must be Bearer {token}", nil)
		}
		return token.DecodeCompact(credentials)
	case "wrap":
		return wrapAccessToken(credentials)
	default:
		return "", badRequest("Authorization header scheme must be Bearer or WRAP", nil)
	}
}

func wrapAccessToken(credentials string) (string, error) {
	name, value, found := strings.Cut(credentials, "=")
	if !found || strings.TrimSpace(name) != "access_token" {
		return "", badRequest(`Authorization header format must be WRAP access_token="{token}"`, nil)
	}
	value = strings.Trim(strings.TrimSpace(value), `"`)
	wire, err := url.QueryUnescape(value)
	if err != nil {
		return "", badRequest("WRAP access_token is not url-encoded", err)
	}
	return wire, nil
}

// CookieTokenExtractor builds a TokenExtractor that takes a request and
// extracts the base64 encoded token from the cookie using the passed in
// cookieName.
func CookieTokenExtractor(cookieName string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		cookie, err := r.Cookie(cookieName)
		if errors.Is(err, http.ErrNoCookie) {
			return "", nil
		}
		if err != nil {
			return "", badRequest("could not read token cookie", err)
		}
		if cookie.Value == "" {
			return "", nil
		}
		return token.DecodeCompact(cookie.Value)
	}
}

// ParameterTokenExtractor returns a TokenExtractor that extracts the wire
// token from the specified query string parameter.
func ParameterTokenExtractor(param string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		return r.URL.Query().Get(param), nil
	}
}

// FormPostTokenExtractor reads the binarySecurityToken envelope posted back
// by a WS-Federation issuer in the wresult form field.
func FormPostTokenExtractor(r *http.Request) (string, error) {
	if r.Method != http.MethodPost {
		return "", nil
	}
	if err := r.ParseForm(); err != nil {
		return "", badRequest("could not parse form", err)
	}
	if r.PostForm.Get("wa") != "wsignin1.0" {
		return "", nil
	}
	result := r.PostForm.Get("wresult")
	if result == "" {
		return "", nil
	}
	return token.ParseEnvelope(result)
}

// MultiTokenExtractor returns a TokenExtractor that runs multiple TokenExtractors
// and takes the one that does not return an empty token. If a TokenExtractor
// returns an error that error is immediately returned.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) (string, error) {
		for _, ex := range extractors {
			tok, err := ex(r)
			if err != nil {
				return "", err
			}
			if tok != "" {
				return tok, nil
			}
		}
		return "", nil
	}
}

func badRequest(msg string, details error) error {
	return core.NewValidationError(core.ErrorCodeInvalidRequest, msg, details)
}
