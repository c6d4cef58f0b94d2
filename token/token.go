// Package token implements the Simple Web Token (SWT) data model, the compact
// wire codec, the HMAC-SHA256 signer and the binary security token envelope.
package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/auth0/go-swt-middleware/core"
)

// Reserved property names. They are never projected as claims.
const (
	ID        = "Id"
	Issuer    = "Issuer"
	Audience  = "Audience"
	ExpiresOn = "ExpiresOn"
	ValidFrom = "ValidFrom"
	Signature = "HMACSHA256"
)

// Well known claim types.
const (
	NameClaimType           = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
	NameIdentifierClaimType = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	EmailClaimType          = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
	RoleClaimType           = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
)

// Epoch is the base instant for ExpiresOn and ValidFrom.
var Epoch = time.Unix(0, 0).UTC()

// IsReserved reports whether name is one of the six reserved property names.
func IsReserved(name string) bool {
	switch name {
	case ID, Issuer, Audience, ExpiresOn, ValidFrom, Signature:
		return true
	}
	return false
}

// Claim is a typed assertion about a subject. Claims with the same Type may repeat.
type Claim struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Issuer string `json:"issuer,omitempty"`
}

// Property is one name/value pair of a token.
type Property struct {
	Name  string
	Value string
}

// Token is an insertion-ordered list of properties. Order matters: it is the
// order in which properties are serialized and therefore signed.
//
// A Token returned by Decode also remembers the wire string it was read from,
// because the signature covers those raw bytes rather than a re-encoding.
type Token struct {
	props []Property
	raw   string
}

// New builds a token from properties in the given order.
func New(props ...Property) *Token {
	t := &Token{props: make([]Property, 0, len(props))}
	t.props = append(t.props, props...)
	return t
}

// Add appends a property. Existing properties with the same name are kept.
func (t *Token) Add(name, value string) {
	t.props = append(t.props, Property{Name: name, Value: value})
}

// Get returns the value of the last property named name.
func (t *Token) Get(name string) (string, bool) {
	for i := len(t.props) - 1; i >= 0; i-- {
		if t.props[i].Name == name {
			return t.props[i].Value, true
		}
	}
	return "", false
}

// Value returns the value of the last property named name or "".
func (t *Token) Value(name string) string {
	v, _ := t.Get(name)
	return v
}

// Properties returns a copy of the properties in order.
func (t *Token) Properties() []Property {
	out := make([]Property, len(t.props))
	copy(out, t.props)
	return out
}

// Len returns the number of properties.
func (t *Token) Len() int { return len(t.props) }

// Raw returns the wire string the token was decoded from, or "" for tokens
// built in memory.
func (t *Token) Raw() string { return t.raw }

func (t *Token) ID() string        { return t.Value(ID) }
func (t *Token) Issuer() string    { return t.Value(Issuer) }
func (t *Token) Audience() string  { return t.Value(Audience) }
func (t *Token) Signature() string { return t.Value(Signature) }

// ExpiresOn returns the ExpiresOn instant. ok is false when the property is absent.
func (t *Token) ExpiresOn() (at time.Time, ok bool, err error) {
	return t.instant(ExpiresOn)
}

// ValidFrom returns the ValidFrom instant. ok is false when the property is absent.
func (t *Token) ValidFrom() (at time.Time, ok bool, err error) {
	return t.instant(ValidFrom)
}

func (t *Token) instant(name string) (time.Time, bool, error) {
	v, ok := t.Get(name)
	if !ok || v == "" {
		return time.Time{}, false, nil
	}
	at, err := ParseEpochSeconds(v)
	if err != nil {
		return time.Time{}, true, core.NewValidationError(
			core.ErrorCodeTokenMalformed,
			fmt.Sprintf("%s is not a decimal second count", name),
			err,
		)
	}
	return at, true, nil
}

// EpochSeconds renders t as whole seconds since Epoch. Instants before Epoch
// and the zero time render as "0".
func EpochSeconds(t time.Time) string {
	if t.IsZero() {
		return "0"
	}
	secs := t.Unix()
	if secs < 0 {
		secs = 0
	}
	return strconv.FormatInt(secs, 10)
}

// ParseEpochSeconds parses a decimal second count since Epoch.
func ParseEpochSeconds(s string) (time.Time, error) {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	if secs < 0 {
		return time.Time{}, fmt.Errorf("negative second count %d", secs)
	}
	return time.Unix(secs, 0).UTC(), nil
}
