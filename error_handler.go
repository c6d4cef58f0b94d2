package swtmiddleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/auth0/go-swt-middleware/core"
)

var (
	// ErrSWTMissing is returned when the request carries no SWT.
	ErrSWTMissing = core.ErrSWTMissing

	// ErrSWTInvalid matches every error for a token that was read and rejected.
	ErrSWTInvalid = core.ErrSWTInvalid

	// ErrSWTMalformed matches every error for input that is not a token.
	ErrSWTMalformed = core.ErrSWTMalformed
)

// ErrorHandler is called when validation fails and writes the response.
// err is ErrSWTMissing, an extractor error or a *core.ValidationError.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// ErrorResponse is the JSON body written by DefaultErrorHandler.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	ErrorCode        string `json:"error_code,omitempty"`
}

type errorMapping struct {
	status      int
	oauthError  string
	description string
}

// errorMappings follows RFC 6750 section 3.1: unreadable requests get
// invalid_request, rejected tokens invalid_token and audience or issuer
// mismatches insufficient_scope.
var errorMappings = map[string]errorMapping{
	core.ErrorCodeInvalidRequest:      {http.StatusBadRequest, "invalid_request", "The request is malformed"},
	core.ErrorCodeTokenMalformed:      {http.StatusBadRequest, "invalid_request", "The access token is malformed"},
	core.ErrorCodeSignatureMalformed:  {http.StatusBadRequest, "invalid_request", "The access token signature is malformed"},
	core.ErrorCodeUnsupportedEncoding: {http.StatusBadRequest, "invalid_request", "The access token encoding is not supported"},
	core.ErrorCodeTokenExpired:        {http.StatusUnauthorized, "invalid_token", "The access token expired"},
	core.ErrorCodeSignatureMissing:    {http.StatusUnauthorized, "invalid_token", "The access token is not signed"},
	core.ErrorCodeUnknownAudience:     {http.StatusUnauthorized, "invalid_token", "Unable to verify the access token"},
	core.ErrorCodeInvalidSignature:    {http.StatusUnauthorized, "invalid_token", "The access token signature is invalid"},
	core.ErrorCodeNoClaims:            {http.StatusUnauthorized, "invalid_token", "The access token carries no claims"},
	core.ErrorCodeAudienceMissing:     {http.StatusForbidden, "insufficient_scope", "The access token has no audience"},
	core.ErrorCodeAudienceNotAllowed:  {http.StatusForbidden, "insufficient_scope", "The access token audience does not match"},
	core.ErrorCodeInvalidIssuer:       {http.StatusForbidden, "insufficient_scope", "The access token was issued by an untrusted issuer"},
}

// DefaultErrorHandler is the default error handler implementation for the
// SWTMiddleware. It answers with an RFC 6750 challenge and a JSON body:
//
//   - missing token: 401 with a bare "Bearer" challenge
//   - malformed request or token: 400 invalid_request
//   - rejected token: 401 invalid_token
//   - audience or issuer mismatch: 403 insufficient_scope
//   - anything else: 500 without a challenge
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status, resp, challenge := mapError(err)

	w.Header().Set("Content-Type", "application/json")
	if challenge != "" {
		w.Header().Set("WWW-Authenticate", challenge)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func mapError(err error) (int, ErrorResponse, string) {
	if errors.Is(err, ErrSWTMissing) {
		return http.StatusUnauthorized, ErrorResponse{Error: "invalid_token"}, "Bearer"
	}

	code := core.CodeOf(err)
	if m, ok := errorMappings[code]; ok {
		challenge := fmt.Sprintf("Bearer error=%q, error_description=%q", m.oauthError, m.description)
		return m.status, ErrorResponse{
			Error:            m.oauthError,
			ErrorDescription: m.description,
			ErrorCode:        code,
		}, challenge
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error:            "server_error",
		ErrorDescription: "Something went wrong while checking the token",
	}, ""
}

func errorCode(err error) string {
	if errors.Is(err, ErrSWTMissing) {
		return core.ErrorCodeTokenMissing
	}
	return core.CodeOf(err)
}
