package grpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/auth0/go-swt-middleware/core"
)

func TestDefaultErrorHandler(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		wantCode codes.Code
		wantMsg  string
	}{
		{name: "missing token", err: core.ErrSWTMissing, wantCode: codes.Unauthenticated, wantMsg: "missing credentials"},
		{name: "extractor error", err: ErrInvalidAuthFormat, wantCode: codes.InvalidArgument, wantMsg: ErrInvalidAuthFormat.Error()},
		{name: "malformed token", err: core.ErrMalformedToken, wantCode: codes.InvalidArgument, wantMsg: "malformed token"},
		{name: "expired", err: core.ErrExpired, wantCode: codes.Unauthenticated, wantMsg: "token expired"},
		{name: "invalid signature", err: fmt.Errorf("check: %w", core.ErrInvalidSignature), wantCode: codes.Unauthenticated, wantMsg: "invalid signature"},
		{name: "unknown audience", err: core.ErrUnknownAudience, wantCode: codes.Unauthenticated, wantMsg: "unable to verify token"},
		{name: "audience not allowed", err: core.ErrAudienceNotAllowed, wantCode: codes.PermissionDenied, wantMsg: "invalid audience"},
		{name: "invalid issuer", err: core.ErrInvalidIssuer, wantCode: codes.PermissionDenied, wantMsg: "invalid issuer"},
		{name: "configuration", err: core.ErrConfiguration, wantCode: codes.Internal, wantMsg: "unable to verify token"},
		{name: "unknown", err: errors.New("boom"), wantCode: codes.Unauthenticated, wantMsg: "invalid token"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			st, ok := status.FromError(DefaultErrorHandler(testCase.err))
			assert.True(t, ok)
			assert.Equal(t, testCase.wantCode, st.Code())
			assert.Equal(t, testCase.wantMsg, st.Message())
		})
	}

	assert.NoError(t, DefaultErrorHandler(nil))
}
