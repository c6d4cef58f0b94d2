package core

import "context"

type claimsContextKey struct{}

// SetClaims returns a copy of ctx carrying the validated claims.
func SetClaims(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// HasClaims reports whether ctx carries claims.
func HasClaims(ctx context.Context) bool {
	return ctx.Value(claimsContextKey{}) != nil
}

// GetClaims returns the claims stored in ctx as T.
//
//	claims, err := core.GetClaims[*validator.ValidatedClaims](ctx)
//
// It returns ErrClaimsNotFound when ctx has no claims and a ValidationError
// with ErrorCodeClaimsNotFound when the stored value is not a T.
func GetClaims[T any](ctx context.Context) (T, error) {
	var zero T

	v := ctx.Value(claimsContextKey{})
	if v == nil {
		return zero, ErrClaimsNotFound
	}
	claims, ok := v.(T)
	if !ok {
		return zero, NewValidationError(ErrorCodeClaimsNotFound, "claims type assertion failed", nil)
	}
	return claims, nil
}
