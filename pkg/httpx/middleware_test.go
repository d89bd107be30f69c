package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/kyc/pkg/cryptox"
	"github.com/aussiebroadwan/kyc/pkg/httpx"
	"github.com/aussiebroadwan/kyc/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestAuthnAndRoles(t *testing.T) {
	pemKey, err := cryptox.SigningKeyPEM("")
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("k1", pemKey)
	require.NoError(t, err)

	now := time.Now().UTC()
	verifier := jwtx.NewVerifierEdDSA(signer.Public(), "kyc-api", func() time.Time { return now })

	mint := func(role string, ttl time.Duration) string {
		tok, err := signer.Sign(jwtx.NewAccessClaims(jwtx.Profile{ID: 1, Role: role}, ttl, "kyc-api", now))
		require.NoError(t, err)
		return tok
	}

	var seen jwtx.Claims
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}), httpx.AuthnMiddleware(verifier), httpx.RequireAnyRole("admin", "moderator"))

	call := func(authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing token", func(t *testing.T) {
		rec := call("")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
		require.Contains(t, rec.Body.String(), "Access Token is required")
	})

	t.Run("expired token", func(t *testing.T) {
		rec := call("Bearer " + mint("admin", -time.Minute))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "Token Expired!")
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := call("Bearer not.a.token")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		rec := call("Bearer " + mint("user", time.Minute))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("allowed role", func(t *testing.T) {
		rec := call("Bearer " + mint("moderator", time.Minute))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "moderator", seen.Role)
		require.Equal(t, "1", seen.Subject)
	})
}
