package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/fundsio/funds/internal/http/respond"
)

var errNoToken = errors.New("no token")

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}

// OwnerID returns the authenticated user id, or uuid.Nil outside Middleware.
func OwnerID(ctx context.Context) uuid.UUID {
	p, _ := FromContext(ctx)
	return p.UserID
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}

// Middleware rejects requests without a valid bearer token and stores the
// principal in the request context.
func (i *Issuer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearer(r)
		if token == "" {
			respond.Message(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		p, err := i.Parse(token)
		if err != nil {
			respond.Message(w, http.StatusUnauthorized, "Token is not valid")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// RequireAdmin must run after Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromContext(r.Context())
		if !ok || !p.IsAdmin() {
			respond.Message(w, http.StatusForbidden, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Authenticate resolves the caller of a WebSocket upgrade, where browsers
// cannot set headers, from the token query parameter or the bearer header.
func (i *Issuer) Authenticate(r *http.Request) (uuid.UUID, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = bearer(r)
	}

	if token == "" {
		return uuid.Nil, errNoToken
	}

	p, err := i.Parse(token)
	if err != nil {
		return uuid.Nil, err
	}

	return p.UserID, nil
}
