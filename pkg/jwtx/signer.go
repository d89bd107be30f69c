package jwtx

import "crypto/ed25519"

// Signer is anything that can sign access tokens.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	Validate() error
}

// NewSignerEdDSA creates an EdDSA signer from PEM bytes.
// Ed25519 keys must be in PKCS8 format.
func NewSignerEdDSA(kid string, pemKey []byte) (*EdDSASigner, error) {
	return newEdDSASigner(kid, pemKey)
}

// Public returns the verification half of the signer's key pair.
func (s *EdDSASigner) Public() ed25519.PublicKey { return s.pub }
