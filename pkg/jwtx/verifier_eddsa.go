package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EdDSAVerifier validates JWTs signed with a single Ed25519 key.
type EdDSAVerifier struct {
	pub    ed25519.PublicKey
	issuer string
	now    func() time.Time
}

// NewVerifierEdDSA creates a verifier for tokens signed by pub.
// A nil now defaults to time.Now.
func NewVerifierEdDSA(pub ed25519.PublicKey, issuer string, now func() time.Time) *EdDSAVerifier {
	if now == nil {
		now = time.Now
	}
	return &EdDSAVerifier{pub: pub, issuer: issuer, now: now}
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *EdDSAVerifier) Verify(tokenStr string) (Claims, error) {
	// Expiry is checked below against the injected clock.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.pub, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return Claims{}, ErrInvalidSig
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, errors.New("jwtx: invalid token claims")
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(v.now().UTC()); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}
