package auth

import "context"

// Identity is the authenticated requester, resolved once per request by the
// middleware and carried on the context.
type Identity struct {
	UserID  string
	IsAdmin bool
}

type identityKey struct{}

func ContextWithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(Identity)
	return ident, ok
}
