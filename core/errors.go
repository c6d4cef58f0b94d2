package core

import "errors"

// Sentinel errors for SWT handling.
var (
	// ErrSWTMissing is returned when no token was presented.
	ErrSWTMissing = errors.New("swt missing")

	// ErrSWTInvalid matches every error raised for a well-formed token that was
	// rejected (expired, bad signature, wrong audience, ...).
	ErrSWTInvalid = errors.New("swt invalid")

	// ErrSWTMalformed matches every error raised for input that is not a token
	// at all (bad wire format, bad envelope, misplaced signature).
	ErrSWTMalformed = errors.New("swt malformed")

	// ErrClaimsNotFound is returned when claims cannot be retrieved from context.
	ErrClaimsNotFound = errors.New("claims not found in context")
)

// Error codes. They are stable and safe to expose to clients.
const (
	ErrorCodeTokenMissing        = "token_missing"
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeConfigInvalid       = "config_invalid"
	ErrorCodeTokenMalformed      = "token_malformed"
	ErrorCodeSignatureMalformed  = "signature_malformed"
	ErrorCodeUnsupportedEncoding = "unsupported_encoding"
	ErrorCodeTokenExpired        = "token_expired"
	ErrorCodeSignatureMissing    = "signature_missing"
	ErrorCodeUnknownAudience     = "unknown_audience"
	ErrorCodeInvalidSignature    = "invalid_signature"
	ErrorCodeAudienceMissing     = "audience_missing"
	ErrorCodeAudienceNotAllowed  = "audience_not_allowed"
	ErrorCodeInvalidIssuer       = "invalid_issuer"
	ErrorCodeNoClaims            = "no_claims"
	ErrorCodeValidatorNotSet     = "validator_not_set"
	ErrorCodeClaimsNotFound      = "claims_not_found"
)

// Sentinels for each error kind. Compare with errors.Is; a ValidationError
// matches a sentinel when their codes are equal.
var (
	ErrInvalidRequest      = NewValidationError(ErrorCodeInvalidRequest, "invalid request", nil)
	ErrConfiguration       = NewValidationError(ErrorCodeConfigInvalid, "configuration error", nil)
	ErrMalformedToken      = NewValidationError(ErrorCodeTokenMalformed, "malformed token", nil)
	ErrMalformedSignature  = NewValidationError(ErrorCodeSignatureMalformed, "malformed signature", nil)
	ErrUnsupportedEncoding = NewValidationError(ErrorCodeUnsupportedEncoding, "unsupported encoding", nil)
	ErrExpired             = NewValidationError(ErrorCodeTokenExpired, "token expired", nil)
	ErrMissingSignature    = NewValidationError(ErrorCodeSignatureMissing, "token has no signature", nil)
	ErrUnknownAudience     = NewValidationError(ErrorCodeUnknownAudience, "no key for token audience", nil)
	ErrInvalidSignature    = NewValidationError(ErrorCodeInvalidSignature, "invalid signature", nil)
	ErrMissingAudience     = NewValidationError(ErrorCodeAudienceMissing, "token has no audience", nil)
	ErrAudienceNotAllowed  = NewValidationError(ErrorCodeAudienceNotAllowed, "audience not allowed", nil)
	ErrInvalidIssuer       = NewValidationError(ErrorCodeInvalidIssuer, "issuer not trusted", nil)
	ErrNoClaims            = NewValidationError(ErrorCodeNoClaims, "token carries no claims", nil)
)

// ValidationError carries a machine-readable code alongside the message and
// the underlying cause. It is the only error type produced by the codec, the
// validator and the scope resolver.
type ValidationError struct {
	// Code is a machine-readable error code (e.g., "token_expired", "invalid_signature")
	Code string

	// Message is a human-readable error message
	Message string

	// Details contains the underlying error
	Details error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Details != nil {
		return e.Message + ": " + e.Details.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ValidationError) Unwrap() error {
	return e.Details
}

// Is reports whether target is the class sentinel for this error's code
// (ErrSWTMalformed or ErrSWTInvalid) or another ValidationError with the same code.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrSWTMalformed:
		return IsStructural(e.Code)
	case ErrSWTInvalid:
		return IsRejection(e.Code)
	}
	var other *ValidationError
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

// NewValidationError creates a new ValidationError with the given code and message.
func NewValidationError(code, message string, details error) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// IsStructural reports whether code describes input that could not be read
// as a token.
func IsStructural(code string) bool {
	switch code {
	case ErrorCodeTokenMalformed, ErrorCodeSignatureMalformed, ErrorCodeUnsupportedEncoding:
		return true
	}
	return false
}

// IsRejection reports whether code describes a readable token that failed a
// validation check.
func IsRejection(code string) bool {
	switch code {
	case ErrorCodeTokenExpired,
		ErrorCodeSignatureMissing,
		ErrorCodeUnknownAudience,
		ErrorCodeInvalidSignature,
		ErrorCodeAudienceMissing,
		ErrorCodeAudienceNotAllowed,
		ErrorCodeInvalidIssuer,
		ErrorCodeNoClaims:
		return true
	}
	return false
}

// CodeOf returns the code of the first ValidationError in err's chain, or ""
// when there is none.
func CodeOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}
