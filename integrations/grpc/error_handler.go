package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/auth0/go-swt-middleware/core"
)

// ErrorHandler converts validation errors to gRPC status errors.
type ErrorHandler func(error) error

var statusMappings = map[string]struct {
	code    codes.Code
	message string
}{
	core.ErrorCodeInvalidRequest:      {codes.InvalidArgument, "invalid request"},
	core.ErrorCodeTokenMalformed:      {codes.InvalidArgument, "malformed token"},
	core.ErrorCodeSignatureMalformed:  {codes.InvalidArgument, "malformed signature"},
	core.ErrorCodeUnsupportedEncoding: {codes.InvalidArgument, "unsupported token encoding"},
	core.ErrorCodeTokenExpired:        {codes.Unauthenticated, "token expired"},
	core.ErrorCodeSignatureMissing:    {codes.Unauthenticated, "token not signed"},
	core.ErrorCodeUnknownAudience:     {codes.Unauthenticated, "unable to verify token"},
	core.ErrorCodeInvalidSignature:    {codes.Unauthenticated, "invalid signature"},
	core.ErrorCodeNoClaims:            {codes.Unauthenticated, "token carries no claims"},
	core.ErrorCodeAudienceMissing:     {codes.PermissionDenied, "token has no audience"},
	core.ErrorCodeAudienceNotAllowed:  {codes.PermissionDenied, "invalid audience"},
	core.ErrorCodeInvalidIssuer:       {codes.PermissionDenied, "invalid issuer"},
	core.ErrorCodeConfigInvalid:       {codes.Internal, "unable to verify token"},
}

// DefaultErrorHandler maps SWT validation errors to gRPC status codes.
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, core.ErrSWTMissing) {
		return status.Error(codes.Unauthenticated, "missing credentials")
	}

	if errors.Is(err, ErrMultipleAuthHeaders) ||
		errors.Is(err, ErrInvalidAuthFormat) ||
		errors.Is(err, ErrUnsupportedScheme) {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	if m, ok := statusMappings[core.CodeOf(err)]; ok {
		return status.Error(m.code, m.message)
	}

	// Unknown failures are not leaked to the client.
	return status.Error(codes.Unauthenticated, "invalid token")
}
