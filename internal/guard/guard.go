// Package guard decides whether a navigation may proceed.
package guard

import (
	"context"
	"slices"

	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
)

// State is the guard's verdict for one navigation.
type State int

const (
	Unauthenticated State = iota
	Authenticated
	AuthenticatedRestrictedRole
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case AuthenticatedRestrictedRole:
		return "authenticated_restricted_role"
	default:
		return "unauthenticated"
	}
}

// Route is a guarded destination. No required roles means any signed-in user.
type Route struct {
	Path          string
	RequiredRoles []kycsdk.Role
}

// Verdict tells the router what to do. Redirect is only set for
// Unauthenticated.
type Verdict struct {
	State    State
	Redirect string
}

// Sessions is what the guard needs from the session store.
type Sessions interface {
	IsAuthenticated(ctx context.Context, withNotice bool) bool
	CurrentUser() (kycsdk.User, bool)
}

// Guard holds no verdicts between navigations.
type Guard struct {
	sessions  Sessions
	loginPath string
}

func New(sessions Sessions, loginPath string) *Guard {
	return &Guard{sessions: sessions, loginPath: loginPath}
}

// Evaluate checks the live session for route. An expired session queues the
// expiry notice.
func (g *Guard) Evaluate(ctx context.Context, route Route) Verdict {
	authed := g.sessions.IsAuthenticated(ctx, true)
	user, _ := g.sessions.CurrentUser()

	v := Verdict{State: Decide(authed, user, route.RequiredRoles)}
	if v.State == Unauthenticated {
		v.Redirect = g.loginPath
	}
	return v
}

// Decide is the pure core of the guard.
func Decide(authenticated bool, user kycsdk.User, required []kycsdk.Role) State {
	if !authenticated {
		return Unauthenticated
	}
	if len(required) > 0 && !slices.Contains(required, user.Role) {
		return AuthenticatedRestrictedRole
	}
	return Authenticated
}
