package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/BhanuIITMandi/SprintSync/pkg/cerr"
	"github.com/BhanuIITMandi/SprintSync/pkg/clog"
)

// IdentityLookup resolves a user id from a verified token into an Identity.
// It is supplied by the caller so this package stays independent of the user
// store.
type IdentityLookup func(ctx context.Context, userID string) (Identity, error)

type Middleware struct {
	secret []byte
	lookup IdentityLookup
}

func NewMiddleware(secret []byte, lookup IdentityLookup) *Middleware {
	return &Middleware{secret: secret, lookup: lookup}
}

// Handler rejects requests without a valid Bearer token. On success the
// resolved Identity is stored on the context and the user id is attached to
// the request's log record.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			cerr.SetNewJSONError(r.Context(), cerr.Unauthenticated, "missing bearer token", nil)
			return
		}
		userID, err := ParseToken(m.secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			cerr.SetNewJSONError(r.Context(), cerr.Unauthenticated, "invalid token", err)
			return
		}
		ident, err := m.lookup(r.Context(), userID)
		if err != nil {
			cerr.SetNewJSONError(r.Context(), cerr.Unauthenticated, "unknown user", err)
			return
		}

		ctx := ContextWithIdentity(r.Context(), ident)
		clog.AddAttribute(ctx, "user_id", ident.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
