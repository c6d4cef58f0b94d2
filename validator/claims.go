package validator

import (
	"time"

	"github.com/auth0/go-swt-middleware/token"
)

// ValidatedClaims is the struct that will be inserted into the context for
// the user.
type ValidatedClaims struct {
	ID string `json:"id,omitempty"`
	// Issuer is the name returned by the issuer name registry.
	Issuer string `json:"issuer"`
	// RawIssuer is the Issuer value carried by the token.
	RawIssuer string        `json:"rawIssuer,omitempty"`
	Audience  string        `json:"audience,omitempty"`
	ExpiresOn time.Time     `json:"expiresOn"`
	ValidFrom time.Time     `json:"validFrom,omitempty"`
	Claims    []token.Claim `json:"claims"`
}

// FindAll returns the values of every claim of the given type, in order.
func (c *ValidatedClaims) FindAll(claimType string) []string {
	var out []string
	for _, cl := range c.Claims {
		if cl.Type == claimType {
			out = append(out, cl.Value)
		}
	}
	return out
}

// First returns the value of the first claim of the given type.
func (c *ValidatedClaims) First(claimType string) (string, bool) {
	for _, cl := range c.Claims {
		if cl.Type == claimType {
			return cl.Value, true
		}
	}
	return "", false
}

// HasClaim reports whether a claim with this type and value is present.
func (c *ValidatedClaims) HasClaim(claimType, value string) bool {
	for _, cl := range c.Claims {
		if cl.Type == claimType && cl.Value == value {
			return true
		}
	}
	return false
}

// Name returns the first name claim, or "".
func (c *ValidatedClaims) Name() string {
	v, _ := c.First(token.NameClaimType)
	return v
}

// Roles returns every role claim.
func (c *ValidatedClaims) Roles() []string {
	return c.FindAll(token.RoleClaimType)
}
