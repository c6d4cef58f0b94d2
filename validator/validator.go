package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/auth0/go-swt-middleware/core"
	"github.com/auth0/go-swt-middleware/keys"
	"github.com/auth0/go-swt-middleware/token"
)

// AudienceMode controls whether the token audience is checked against the
// allow-list.
type AudienceMode int

const (
	// AudienceAlways requires the token audience to be in the allow-list.
	AudienceAlways AudienceMode = iota
	// AudienceNever skips the audience check. The audience still selects
	// the verification key.
	AudienceNever
)

func (m AudienceMode) String() string {
	switch m {
	case AudienceAlways:
		return "always"
	case AudienceNever:
		return "never"
	}
	return fmt.Sprintf("AudienceMode(%d)", int(m))
}

// Validator checks SWTs. It is safe for concurrent use once built.
type Validator struct {
	keys             keys.Resolver       // Required.
	allowedClockSkew time.Duration       // Optional.
	audienceMode     AudienceMode        // Optional, defaults to AudienceAlways.
	audiences        map[string]struct{} // Normalized allow-list.
	issuers          IssuerNameRegistry  // Checked at validation time.
	requireClaims    bool
	now              func() time.Time
}

// New sets up a Validator.
//
// Required options:
//   - WithKeyResolver: where verification keys come from
//
// The audience allow-list and the issuer name registry are only checked when
// a token is validated, so a Validator built without them fails every token
// with a configuration error rather than failing here.
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		audienceMode:  AudienceAlways,
		audiences:     map[string]struct{}{},
		requireClaims: true,
		now:           time.Now,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if v.keys == nil {
		return nil, errors.New("key resolver is required but was nil (use WithKeyResolver)")
	}

	return v, nil
}

// ValidateToken decodes and validates a wire token. On success the result is
// a *ValidatedClaims.
func (v *Validator) ValidateToken(ctx context.Context, wire string) (any, error) {
	tok, err := token.Decode(wire)
	if err != nil {
		return nil, err
	}
	claims, err := v.Validate(ctx, tok)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateEnvelope reads a binarySecurityToken element and validates the
// token it carries.
func (v *Validator) ValidateEnvelope(ctx context.Context, envelope string) (*ValidatedClaims, error) {
	wire, err := token.ParseEnvelope(envelope)
	if err != nil {
		return nil, err
	}
	tok, err := token.Decode(wire)
	if err != nil {
		return nil, err
	}
	claims, err := v.Validate(ctx, tok)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Validate runs the checks in order and stops at the first failure: expiry,
// signature presence, signature, audience, then claims projection. tok must
// come from token.Decode because the signature is checked over the raw wire
// bytes.
func (v *Validator) Validate(ctx context.Context, tok *token.Token) (*ValidatedClaims, error) {
	now := v.now()

	expiresOn, err := v.checkExpiry(tok, now)
	if err != nil {
		return nil, err
	}

	if err := v.checkSignature(ctx, tok); err != nil {
		return nil, err
	}

	if err := v.checkAudience(tok.Audience()); err != nil {
		return nil, err
	}

	claims, err := v.project(ctx, tok)
	if err != nil {
		return nil, err
	}

	claims.ExpiresOn = expiresOn
	if from, ok, err := tok.ValidFrom(); err == nil && ok {
		claims.ValidFrom = from
	}
	return claims, nil
}

func (v *Validator) checkExpiry(tok *token.Token, now time.Time) (time.Time, error) {
	expiresOn, ok, err := tok.ExpiresOn()
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, core.NewValidationError(core.ErrorCodeTokenExpired, "token has no ExpiresOn", nil)
	}
	if !expiresOn.Add(v.allowedClockSkew).After(now) {
		return time.Time{}, core.NewValidationError(
			core.ErrorCodeTokenExpired,
			fmt.Sprintf("token expired at %s", expiresOn.Format(time.RFC3339)),
			nil,
		)
	}
	return expiresOn, nil
}

func (v *Validator) checkSignature(ctx context.Context, tok *token.Token) error {
	wire := tok.Raw()
	signature := tok.Signature()
	if wire == "" || signature == "" {
		return core.ErrMissingSignature
	}

	unsigned, err := token.UnsignedPrefix(wire)
	if err != nil {
		return err
	}

	audience := tok.Audience()
	key, err := v.keys.ResolveKey(ctx, audience)
	if err != nil {
		if errors.Is(err, keys.ErrKeyNotFound) {
			return core.NewValidationError(
				core.ErrorCodeUnknownAudience,
				fmt.Sprintf("no key registered for audience %q", audience),
				err,
			)
		}
		return core.NewValidationError(core.ErrorCodeConfigInvalid, "could not resolve verification key", err)
	}

	if !token.Verify([]byte(unsigned), signature, key) {
		return core.ErrInvalidSignature
	}
	return nil
}

func (v *Validator) checkAudience(audience string) error {
	if v.audienceMode == AudienceNever {
		return nil
	}
	if audience == "" {
		return core.ErrMissingAudience
	}
	if len(v.audiences) == 0 {
		return core.NewValidationError(
			core.ErrorCodeConfigInvalid,
			"audience restriction is enabled but no allowed audiences are configured",
			nil,
		)
	}

	normalized, err := NormalizeAudience(audience)
	if err != nil {
		return core.NewValidationError(
			core.ErrorCodeAudienceNotAllowed,
			fmt.Sprintf("audience %q is not a URI", audience),
			err,
		)
	}
	if _, ok := v.audiences[normalized]; !ok {
		return core.NewValidationError(
			core.ErrorCodeAudienceNotAllowed,
			fmt.Sprintf("audience %q is not allowed", audience),
			nil,
		)
	}
	return nil
}

func (v *Validator) project(ctx context.Context, tok *token.Token) (*ValidatedClaims, error) {
	if v.issuers == nil {
		return nil, core.NewValidationError(core.ErrorCodeConfigInvalid, "no issuer name registry configured", nil)
	}

	rawIssuer := tok.Issuer()
	issuer, err := v.issuers.IssuerName(ctx, rawIssuer)
	if err != nil {
		if core.CodeOf(err) != "" {
			return nil, err
		}
		return nil, core.NewValidationError(
			core.ErrorCodeInvalidIssuer,
			fmt.Sprintf("issuer %q is not trusted", rawIssuer),
			err,
		)
	}

	var claims []token.Claim
	for _, p := range tok.Properties() {
		if token.IsReserved(p.Name) || p.Value == "" {
			continue
		}
		claims = append(claims, token.Claim{Type: p.Name, Value: p.Value, Issuer: issuer})
		if p.Name == token.NameIdentifierClaimType {
			claims = append(claims, token.Claim{Type: token.NameClaimType, Value: p.Value, Issuer: issuer})
		}
	}

	if len(claims) == 0 && v.requireClaims {
		return nil, core.ErrNoClaims
	}

	return &ValidatedClaims{
		ID:        tok.ID(),
		Issuer:    issuer,
		RawIssuer: rawIssuer,
		Audience:  tok.Audience(),
		Claims:    claims,
	}, nil
}
