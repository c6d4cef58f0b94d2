/*
Package swtmiddleware protects net/http handlers with Simple Web Token (SWT)
validation.

	reg, err := keys.LoadFile("audiences.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	v, err := validator.New(
	    validator.WithKeyResolver(reg),
	    validator.WithAudience("https://app.example.com/"),
	    validator.WithIssuerNameRegistry(validator.TrustedIssuers{
	        "https://sts.example.com/": "sts",
	    }),
	    validator.WithAllowedClockSkew(5*time.Minute),
	)
	if err != nil {
	    log.Fatal(err)
	}

	middleware, err := swtmiddleware.New(swtmiddleware.WithValidator(v))
	if err != nil {
	    log.Fatal(err)
	}

	http.Handle("/api/", middleware.CheckSWT(apiHandler))

Handlers read the claims with GetClaims:

	claims, err := swtmiddleware.GetClaims[*validator.ValidatedClaims](r.Context())

# Token transport

AuthHeaderTokenExtractor is the default and accepts "Bearer <base64 token>"
and "WRAP access_token=\"<url-encoded token>\"". CookieTokenExtractor,
ParameterTokenExtractor and FormPostTokenExtractor (the wresult field of a
WS-Federation sign-in post) cover the other transports; MultiTokenExtractor
chains them.

# Errors

DefaultErrorHandler answers in the RFC 6750 style. A missing token gets a
bare Bearer challenge, an unreadable one 400 invalid_request, a rejected one
401 invalid_token and an audience or issuer mismatch 403 insufficient_scope.
The JSON body carries the validation error code in error_code.

# Observability

WithLogger accepts any slog-compatible logger; NewLogrusLogger and
NewZapLogger adapt logrus and zap. WithTracer wraps each validation in a
swt.validate span (see NewOpenTelemetryTracer) and WithMetrics records the
outcome (see NewPrometheusMetrics).
*/
package swtmiddleware
