// Package scope resolves where and how a token is issued: the relying party
// it applies to, the key that signs it and the address it is returned to.
package scope

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/auth0/go-swt-middleware/core"
	"github.com/auth0/go-swt-middleware/keys"
)

// Scope is the issuance target for one request.
type Scope struct {
	AppliesTo          string
	ReplyTo            string
	SigningKey         []byte
	EncryptionRequired bool
}

// Resolver builds a Scope per request.
type Resolver struct {
	signingKey []byte
	keys       keys.Resolver
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithSigningKey sets the key used for relying parties without a key of
// their own.
func WithSigningKey(key []byte) Option {
	return func(r *Resolver) error {
		if len(key) == 0 {
			return errors.New("signing key cannot be empty")
		}
		r.signingKey = append([]byte(nil), key...)
		return nil
	}
}

// WithKeyResolver sets per relying party keys, looked up by applies-to.
func WithKeyResolver(resolver keys.Resolver) Option {
	return func(r *Resolver) error {
		if resolver == nil {
			return errors.New("key resolver cannot be nil")
		}
		r.keys = resolver
		return nil
	}
}

// NewResolver returns a Resolver. At least one of WithSigningKey and
// WithKeyResolver must be given.
func NewResolver(opts ...Option) (*Resolver, error) {
	r := &Resolver{}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if len(r.signingKey) == 0 && r.keys == nil {
		return nil, errors.New("a signing key or a key resolver is required")
	}
	return r, nil
}

// Resolve computes the scope for a request. appliesTo must be an absolute
// URI. replyTo may be empty, relative, absolute or garbage; see ReplyTo.
func (r *Resolver) Resolve(ctx context.Context, appliesTo, replyTo string) (*Scope, error) {
	target, err := parseAppliesTo(appliesTo)
	if err != nil {
		return nil, err
	}

	key, err := r.signingKeyFor(ctx, appliesTo)
	if err != nil {
		return nil, err
	}

	return &Scope{
		AppliesTo:  appliesTo,
		ReplyTo:    replyAddress(target, appliesTo, replyTo),
		SigningKey: key,
	}, nil
}

// Registered reports whether the key resolver holds a key for appliesTo. A
// realm served only by the default signing key is not registered.
func (r *Resolver) Registered(ctx context.Context, appliesTo string) bool {
	if r.keys == nil {
		return false
	}
	key, err := r.keys.ResolveKey(ctx, appliesTo)
	return err == nil && len(key) > 0
}

func (r *Resolver) signingKeyFor(ctx context.Context, appliesTo string) ([]byte, error) {
	if r.keys != nil {
		key, err := r.keys.ResolveKey(ctx, appliesTo)
		switch {
		case err == nil && len(key) > 0:
			return key, nil
		case err != nil && !errors.Is(err, keys.ErrKeyNotFound):
			return nil, core.NewValidationError(core.ErrorCodeConfigInvalid, "could not resolve signing key", err)
		}
	}
	if len(r.signingKey) == 0 {
		return nil, core.NewValidationError(
			core.ErrorCodeConfigInvalid,
			fmt.Sprintf("no signing key for %q", appliesTo),
			nil,
		)
	}
	return append([]byte(nil), r.signingKey...), nil
}

// ReplyTo returns the address a token for appliesTo is delivered to.
//
// An absolute replyTo on the same host as appliesTo is used as is. An
// absolute replyTo on another host is ignored in favour of appliesTo. A
// relative replyTo is resolved against appliesTo, unless that lands on
// another host. An empty or unparseable replyTo yields appliesTo.
func ReplyTo(appliesTo, replyTo string) (string, error) {
	target, err := parseAppliesTo(appliesTo)
	if err != nil {
		return "", err
	}
	return replyAddress(target, appliesTo, replyTo), nil
}

func parseAppliesTo(appliesTo string) (*url.URL, error) {
	if appliesTo == "" {
		return nil, core.NewValidationError(core.ErrorCodeInvalidRequest, "appliesTo is required", nil)
	}
	u, err := url.Parse(appliesTo)
	if err != nil || !u.IsAbs() {
		return nil, core.NewValidationError(
			core.ErrorCodeInvalidRequest,
			fmt.Sprintf("appliesTo %q is not an absolute URI", appliesTo),
			err,
		)
	}
	return u, nil
}

func replyAddress(target *url.URL, appliesTo, replyTo string) string {
	if replyTo == "" {
		return appliesTo
	}
	ref, err := url.Parse(replyTo)
	if err != nil {
		return appliesTo
	}
	if ref.IsAbs() {
		if !sameHost(ref, target) {
			return appliesTo
		}
		return replyTo
	}

	resolved := target.ResolveReference(ref)
	if !sameHost(resolved, target) {
		return appliesTo
	}
	return resolved.String()
}

func sameHost(a, b *url.URL) bool {
	return a.Hostname() != "" && strings.EqualFold(a.Hostname(), b.Hostname())
}
