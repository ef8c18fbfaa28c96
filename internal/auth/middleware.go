package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/louisbranch/kingdoms-of-fate/internal/platform/httpx"
)

type contextKey struct{}

// PlayerContextID returns the authenticated player context from a request
// context.
func PlayerContextID(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(contextKey{}).(string)
	return value, ok && value != ""
}

// WithPlayerContextID stamps a player context onto a context. Exposed for
// handler tests.
func WithPlayerContextID(ctx context.Context, playerContextID string) context.Context {
	return context.WithValue(ctx, contextKey{}, playerContextID)
}

// Middleware verifies the bearer token on each request and injects the
// player context ID. Requests without a valid token are rejected before the
// handler runs.
func (i *Issuer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		playerContextID, err := i.Verify(token)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPlayerContextID(r.Context(), playerContextID)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
