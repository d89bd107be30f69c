package jwtx

import "errors"

// Verifier validates a JWT and gives back its claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed     = errors.New("jwtx: malformed token")
	ErrMissingExpiry = errors.New("jwtx: token has no exp claim")
	ErrInvalidSig    = errors.New("jwtx: invalid signature")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)
