package keys

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrKeyNotFound is returned when no key is registered for an audience.
var ErrKeyNotFound = errors.New("no key registered for audience")

// Resolver looks up the signing key for an audience. Implementations must
// return an error wrapping ErrKeyNotFound when the audience is unknown.
type Resolver interface {
	ResolveKey(ctx context.Context, audience string) ([]byte, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, audience string) ([]byte, error)

// ResolveKey calls f.
func (f ResolverFunc) ResolveKey(ctx context.Context, audience string) ([]byte, error) {
	return f(ctx, audience)
}

// Registry maps audiences to shared secrets. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	keys map[string][]byte
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{keys: make(map[string][]byte)}
}

// Register stores key for audience, replacing any earlier key.
func (r *Registry) Register(audience string, key []byte) {
	k := make([]byte, len(key))
	copy(k, key)

	r.mu.Lock()
	r.keys[audience] = k
	r.mu.Unlock()
}

// Resolve returns a copy of the key registered for audience.
func (r *Registry) Resolve(audience string) ([]byte, bool) {
	r.mu.RLock()
	k, ok := r.keys[audience]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	out := make([]byte, len(k))
	copy(out, k)
	return out, true
}

// ResolveKey implements Resolver.
func (r *Registry) ResolveKey(_ context.Context, audience string) ([]byte, error) {
	k, ok := r.Resolve(audience)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, audience)
	}
	return k, nil
}

// Audiences returns the registered audiences in lexical order.
func (r *Registry) Audiences() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.keys))
	for aud := range r.keys {
		out = append(out, aud)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Len returns the number of registered audiences.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}
