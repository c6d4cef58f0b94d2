package swtmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_New_OptionsValidation(t *testing.T) {
	noop := ValidateTokenFunc(func(context.Context, string) (any, error) { return "claims", nil })

	testCases := []struct {
		name    string
		options []Option
		wantErr error
	}{
		{name: "it requires a validator", options: nil, wantErr: ErrValidatorNil},
		{name: "it rejects a nil validator", options: []Option{WithValidator(nil)}, wantErr: ErrValidatorNil},
		{name: "it rejects a nil error handler", options: []Option{WithValidator(noop), WithErrorHandler(nil)}, wantErr: ErrErrorHandlerNil},
		{name: "it rejects a nil extractor", options: []Option{WithValidator(noop), WithTokenExtractor(nil)}, wantErr: ErrTokenExtractorNil},
		{name: "it rejects empty exclusions", options: []Option{WithValidator(noop), WithExclusionURLs(nil)}, wantErr: ErrExclusionURLsEmpty},
		{name: "it rejects blank exclusions", options: []Option{WithValidator(noop), WithExclusionURLs([]string{""})}, wantErr: ErrExclusionURLsEmpty},
		{name: "it rejects a nil logger", options: []Option{WithValidator(noop), WithLogger(nil)}, wantErr: ErrLoggerNil},
		{name: "it rejects a nil tracer", options: []Option{WithValidator(noop), WithTracer(nil)}, wantErr: ErrTracerNil},
		{name: "it rejects nil metrics", options: []Option{WithValidator(noop), WithMetrics(nil)}, wantErr: ErrMetricsNil},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := New(testCase.options...)
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

func Test_New_Defaults(t *testing.T) {
	m, err := New(WithValidator(ValidateTokenFunc(func(context.Context, string) (any, error) { return "claims", nil })))
	require.NoError(t, err)

	assert.True(t, m.validateOnOptions)
	assert.False(t, m.credentialsOptional)
	assert.NotNil(t, m.errorHandler)
	assert.NotNil(t, m.tokenExtractor)
	assert.Equal(t, NoopTracer{}, m.tracer)
	assert.Equal(t, NoopMetrics{}, m.metrics)
}

func Test_WithExclusionURLs(t *testing.T) {
	m, err := New(
		WithValidator(ValidateTokenFunc(func(context.Context, string) (any, error) { return "claims", nil })),
		WithExclusionURLs([]string{"/health", "http://example.com/Static/"}),
	)
	require.NoError(t, err)

	testCases := []struct {
		target string
		want   bool
	}{
		{target: "/health", want: true},
		{target: "/HEALTH/live", want: true},
		{target: "http://example.com/static/app.js", want: true},
		{target: "/api/health", want: false},
		{target: "/static/app.js", want: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, testCase.target, nil)
			assert.Equal(t, testCase.want, m.exclusionURLHandler(req))
		})
	}
}
