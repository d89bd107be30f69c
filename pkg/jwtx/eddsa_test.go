package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/kyc/pkg/cryptox"
	"github.com/aussiebroadwan/kyc/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "https://kyc.example.test"

func TestEdDSASignAndVerify(t *testing.T) {
	pemKey, err := cryptox.SigningKeyPEM("")
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("test-key-eddsa", pemKey)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, "test-key-eddsa", signer.KID())

	now := time.Now().UTC()
	claims := jwtx.NewAccessClaims(jwtx.Profile{ID: 1, Username: "emilys", Role: "admin"},
		5*time.Minute, exampleIssuer, now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	exp, err := jwtx.PayloadExpiry(token)
	require.NoError(t, err)
	require.Equal(t, claims.ExpiresAt.Unix(), exp.Unix())

	verifier := jwtx.NewVerifierEdDSA(signer.Public(), exampleIssuer, func() time.Time { return now })
	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "emilys", got.Username)
	require.Equal(t, "admin", got.Role)

	t.Run("expired", func(t *testing.T) {
		late := jwtx.NewVerifierEdDSA(signer.Public(), exampleIssuer, func() time.Time { return now.Add(time.Hour) })
		_, err := late.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong key", func(t *testing.T) {
		otherPEM, err := cryptox.SigningKeyPEM("")
		require.NoError(t, err)
		other, err := jwtx.NewSignerEdDSA("other", otherPEM)
		require.NoError(t, err)

		_, err = jwtx.NewVerifierEdDSA(other.Public(), exampleIssuer, nil).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := jwtx.NewVerifierEdDSA(signer.Public(), "elsewhere", func() time.Time { return now }).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})
}
