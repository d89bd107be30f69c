// Package session owns the signed-in user's session: who is logged in,
// whether their token is still live, and how that survives a restart.
package session

import (
	"time"

	"github.com/aussiebroadwan/kyc/pkg/jwtx"
	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
)

// Session is an authenticated principal. It is either fully present (token
// and user) or the zero value.
type Session struct {
	User  kycsdk.User
	Token string
}

// IsZero reports whether s represents "logged out".
func (s Session) IsZero() bool { return s.Token == "" }

// ExpiresAt decodes the expiry from the token. It is never stored.
func (s Session) ExpiresAt() (time.Time, error) {
	return jwtx.PayloadExpiry(s.Token)
}

// complete reports whether both halves of the session are present.
func (s Session) complete() bool {
	return s.Token != "" && s.User.ID != ""
}

// Liveness is the outcome of checking a session against the clock.
type Liveness int

const (
	Absent Liveness = iota
	Malformed
	Expired
	Live
)

func (l Liveness) String() string {
	switch l {
	case Malformed:
		return "malformed"
	case Expired:
		return "expired"
	case Live:
		return "live"
	default:
		return "absent"
	}
}

// Check classifies s at now. A token is live strictly before its exp.
func Check(s Session, now time.Time) Liveness {
	if s.IsZero() {
		return Absent
	}
	exp, err := s.ExpiresAt()
	if err != nil {
		return Malformed
	}
	if !now.Before(exp) {
		return Expired
	}
	return Live
}

// IsValid is the side-effect free validity predicate.
func IsValid(s Session, now time.Time) bool {
	return Check(s, now) == Live
}
