package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/kyc/pkg/jwtx"
	"github.com/aussiebroadwan/kyc/pkg/slogx"
)

// AuthnMiddleware rejects requests without a valid bearer token.
// The verifier is responsible for expiry.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token", "Access Token is required")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if errors.Is(err, jwtx.ErrExpired) {
				writeBearerError(w, "token expired", "Token Expired!")
				return
			}
			if err != nil {
				writeBearerError(w, "token verification failed", "Invalid/Expired Token!")
				log.Warn("jwt verify failed", "err", err)
				return
			}

			// Inject into context for downstream handlers.
			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyRole, c.Role)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return slogx.With(ctx, "user_id", c.Subject, "role", c.Role)
}

// RFC 6750-compliant challenge header plus the upstream's message body.
func writeBearerError(w http.ResponseWriter, desc, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteMessage(w, http.StatusUnauthorized, msg)
}
