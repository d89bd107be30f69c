package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// SigningKeyPEM returns a PKCS8 PEM-encoded Ed25519 private key. An empty
// passphrase yields a fresh random key; otherwise the key is derived from
// the passphrase, so the same passphrase always yields the same key.
func SigningKeyPEM(passphrase string) ([]byte, error) {
	var key ed25519.PrivateKey
	if passphrase == "" {
		_, k, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("cryptox: generate signing key: %w", err)
		}
		key = k
	} else {
		seed := sha256.Sum256([]byte("kyc-signing-key:" + passphrase))
		key = ed25519.NewKeyFromSeed(seed[:])
	}

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: marshal signing key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}
