// Package authctx carries authentication state through a request context:
// the parsed claims and the raw bearer token they came from.
//
//	ctx = authctx.Set(ctx, claims)
//	claims, ok := authctx.Get[*auth.SessionClaims](ctx)
package authctx

import (
	"context"
	"errors"
)

type claimsKey struct{}

type tokenKey struct{}

// ErrNoClaims is returned when claims are not found in the context.
var ErrNoClaims = errors.New("authctx: no claims in context")

// Set stores authentication claims in the context.
func Set(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// Get retrieves typed authentication claims from the context.
func Get[T any](ctx context.Context) (T, bool) {
	claims, ok := ctx.Value(claimsKey{}).(T)
	return claims, ok
}

// GetOrError retrieves typed claims, returning ErrNoClaims when missing or
// of another type.
func GetOrError[T any](ctx context.Context) (T, error) {
	claims, ok := Get[T](ctx)
	if !ok {
		return claims, ErrNoClaims
	}
	return claims, nil
}

// WithToken stores the raw bearer token so it can be forwarded upstream.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// Token returns the raw bearer token stored by WithToken.
func Token(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey{}).(string)
	return t, ok && t != ""
}
