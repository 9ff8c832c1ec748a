package postboard

import (
	"context"
)

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithIdentity sets the authenticated Identity in the given context. The
// slot is single-assignment: once an identity is present it is never
// overwritten, so duplicate filter invocations cannot swap subjects
// mid-request.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if identity == nil {
		return ctx
	}
	if _, ok := IdentityFromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext finds the authenticated identity from the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(Identity)
	return raw, ok
}
