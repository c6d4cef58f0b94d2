/*
Package validator checks Simple Web Tokens and projects their claims.

A token passes when, in this order:

 1. ExpiresOn plus the allowed clock skew is after the current time
 2. it carries a signature
 3. the signature is the last parameter
 4. a key is registered for its Audience
 5. the HMAC-SHA256 signature matches that key
 6. its audience is in the allow-list (unless WithAudienceMode(AudienceNever))
 7. the issuer name registry accepts its Issuer
 8. it carries at least one claim (unless WithRequireClaims(false))

The first failing check decides the error; no claims are returned alongside
an error. Every error is a *core.ValidationError, so errors.Is works against
the core sentinels:

	_, err := v.ValidateToken(ctx, wire)
	switch {
	case errors.Is(err, core.ErrExpired):
	case errors.Is(err, core.ErrSWTMalformed):
	    // not a token at all
	case errors.Is(err, core.ErrSWTInvalid):
	    // a token that was rejected
	}

# Basic Usage

	reg, err := keys.LoadFile("audiences.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	v, err := validator.New(
	    validator.WithKeyResolver(reg),
	    validator.WithAudiences([]string{"https://app.example.com/"}),
	    validator.WithIssuerNameRegistry(validator.TrustedIssuers{
	        "https://sts.example.com/": "sts",
	    }),
	    validator.WithAllowedClockSkew(5*time.Minute),
	)

# Audiences

The Audience value does two jobs: it selects the verification key (exact
match in the key registry) and it is checked against the allow-list after
normalization. See NormalizeAudience.

# Claims

Every non-reserved parameter with a non-empty value becomes a claim.
A nameidentifier claim is followed by a name claim with the same value.
*/
package validator
