package token

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/auth0/go-swt-middleware/core"
)

const (
	parameterSeparator = "&"
	nameValueSeparator = "="
)

// Limits applied before a wire token is parsed.
const (
	MaxTokenSize  = 64 << 10
	MaxParameters = 256
)

// Descriptor describes a token to be issued.
type Descriptor struct {
	Issuer    string
	Audience  string
	ValidFrom time.Time
	ExpiresOn time.Time
	// Claims are appended after the reserved properties in this order.
	Claims []Claim
}

// Encoder builds and signs tokens.
type Encoder struct {
	newID func() string
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithIDGenerator replaces the token identifier source. The default is a
// random UUID.
func WithIDGenerator(f func() string) EncoderOption {
	return func(e *Encoder) {
		if f != nil {
			e.newID = f
		}
	}
}

// NewEncoder returns an Encoder.
func NewEncoder(opts ...EncoderOption) *Encoder {
	e := &Encoder{newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEncoder = NewEncoder()

// Encode builds and signs a token with a fresh random identifier.
func Encode(d Descriptor, key []byte) (string, error) {
	return defaultEncoder.Encode(d, key)
}

// Build assembles the property list for d: Id, Issuer, Audience, ExpiresOn,
// ValidFrom, then every claim as (type, value) in input order.
func (e *Encoder) Build(d Descriptor) *Token {
	t := New(
		Property{Name: ID, Value: e.newID()},
		Property{Name: Issuer, Value: d.Issuer},
		Property{Name: Audience, Value: d.Audience},
		Property{Name: ExpiresOn, Value: EpochSeconds(d.ExpiresOn)},
		Property{Name: ValidFrom, Value: EpochSeconds(d.ValidFrom)},
	)
	for _, c := range d.Claims {
		t.Add(c.Type, c.Value)
	}
	return t
}

// Encode builds the token for d and returns its signed wire form.
func (e *Encoder) Encode(d Descriptor, key []byte) (string, error) {
	if err := CheckClaims(d.Claims); err != nil {
		return "", err
	}
	return SignToken(e.Build(d), key)
}

// CheckClaims fails with invalid_request when a claim type is empty or is one
// of the reserved property names.
func CheckClaims(claims []Claim) error {
	for i, c := range claims {
		if c.Type == "" {
			return invalidClaims(fmt.Sprintf("claim %d has an empty type", i))
		}
		if IsReserved(c.Type) {
			return invalidClaims(fmt.Sprintf("claim %d uses reserved name %q", i, c.Type))
		}
	}
	return nil
}

// SignToken serializes t and appends the HMACSHA256 parameter computed over
// the serialized bytes. Any signature property already present in t is dropped.
// A token Decode would reject (an empty name, a repeated reserved name) is
// refused with invalid_request.
func SignToken(t *Token, key []byte) (string, error) {
	if len(key) == 0 {
		return "", core.NewValidationError(core.ErrorCodeConfigInvalid, "no signing key configured", nil)
	}
	seen := make(map[string]bool, 6)
	for i, p := range t.props {
		switch {
		case p.Name == Signature:
		case p.Name == "":
			return "", invalidClaims(fmt.Sprintf("property %d has an empty name", i))
		case IsReserved(p.Name):
			if seen[p.Name] {
				return "", invalidClaims(fmt.Sprintf("reserved property %q appears more than once", p.Name))
			}
			seen[p.Name] = true
		}
	}

	unsigned := Serialize(t)
	var b strings.Builder
	b.Grow(len(unsigned) + 64)
	b.WriteString(unsigned)
	b.WriteString(parameterSeparator)
	writePair(&b, Signature, Sign([]byte(unsigned), key))
	return b.String(), nil
}

// Serialize renders every non-signature property as urlEncode(name)=urlEncode(value)
// joined by "&", in insertion order.
func Serialize(t *Token) string {
	var b strings.Builder
	first := true
	for _, p := range t.props {
		if p.Name == Signature {
			continue
		}
		if !first {
			b.WriteString(parameterSeparator)
		}
		writePair(&b, p.Name, p.Value)
		first = false
	}
	return b.String()
}

func writePair(b *strings.Builder, name, value string) {
	b.WriteString(url.QueryEscape(name))
	b.WriteString(nameValueSeparator)
	b.WriteString(url.QueryEscape(value))
}

// Decode parses a wire token. It performs no signature, expiry or audience
// check: a well-formed but forged or expired token decodes successfully.
//
// Every failure is a ValidationError with code token_malformed. Claim names
// may repeat; reserved names may not.
func Decode(wire string) (*Token, error) {
	if wire == "" {
		return nil, malformed("token is empty", nil)
	}
	if len(wire) > MaxTokenSize {
		return nil, malformed(fmt.Sprintf("token exceeds %d bytes", MaxTokenSize), nil)
	}
	if strings.Count(wire, parameterSeparator) >= MaxParameters {
		return nil, malformed(fmt.Sprintf("token has more than %d parameters", MaxParameters), nil)
	}

	segments := strings.Split(wire, parameterSeparator)
	t := &Token{props: make([]Property, 0, len(segments)), raw: wire}
	seen := make(map[string]bool, 6)

	for i, segment := range segments {
		rawName, rawValue, found := strings.Cut(segment, nameValueSeparator)
		rawName = strings.TrimSpace(rawName)
		if !found || rawName == "" {
			return nil, malformed(fmt.Sprintf("parameter %d is not a name=value pair", i), nil)
		}

		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, malformed(fmt.Sprintf("parameter %d has a badly escaped name", i), err)
		}
		if name == "" {
			return nil, malformed(fmt.Sprintf("parameter %d has an empty name", i), nil)
		}
		value, err := url.QueryUnescape(strings.Trim(strings.TrimSpace(rawValue), `"`))
		if err != nil {
			return nil, malformed(fmt.Sprintf("parameter %q has a badly escaped value", name), err)
		}

		if IsReserved(name) {
			if seen[name] {
				return nil, malformed(fmt.Sprintf("reserved parameter %q appears more than once", name), nil)
			}
			seen[name] = true
		}
		t.props = append(t.props, Property{Name: name, Value: value})
	}

	return t, nil
}

func invalidClaims(msg string) error {
	return core.NewValidationError(core.ErrorCodeInvalidRequest, msg, nil)
}

func malformed(msg string, details error) error {
	return core.NewValidationError(core.ErrorCodeTokenMalformed, msg, details)
}
