package httpx

import (
	"net/http"
)

// RequireAnyRole the caller's role must be one of the provided roles.
func RequireAnyRole(roles ...string) Middleware {
	want := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		want[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := want[roleFromCtx(r.Context())]; ok {
				next.ServeHTTP(w, r)
				return
			}
			WriteMessage(w, http.StatusForbidden, "You do not have permission to perform this action")
		})
	}
}
