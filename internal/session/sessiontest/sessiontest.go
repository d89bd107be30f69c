// Package sessiontest holds helpers shared by session and driver tests.
package sessiontest

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/kyc/internal/session"
	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
	"github.com/stretchr/testify/require"
)

// Token builds an unsigned token whose payload carries exp.
func Token(exp time.Time) string {
	return TokenWithPayload(fmt.Sprintf(`{"sub":"1","exp":%d}`, exp.Unix()))
}

// TokenWithPayload builds an unsigned token around a raw JSON payload.
func TokenWithPayload(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"EdDSA","typ":"JWT"}`)) + "." +
		enc.EncodeToString([]byte(payload)) + ".c2ln"
}

// Session returns a complete session expiring at exp.
func Session(exp time.Time) session.Session {
	return session.Session{
		User: kycsdk.User{
			ID:        "1",
			Username:  "emilys",
			FirstName: "Emily",
			LastName:  "Johnson",
			Role:      kycsdk.RoleAdmin,
		},
		Token: Token(exp),
	}
}

// RunPersister exercises the Persister contract against p.
func RunPersister(t *testing.T, p session.Persister) {
	t.Helper()
	ctx := context.Background()

	_, err := p.Load(ctx)
	require.ErrorIs(t, err, session.ErrNoRecord)

	require.NoError(t, p.Clear(ctx), "clearing an empty store is fine")

	first, err := session.EncodeRecord(Session(time.Unix(1_700_000_000, 0)))
	require.NoError(t, err)
	require.NoError(t, p.Save(ctx, first))

	got, err := p.Load(ctx)
	require.NoError(t, err)
	require.JSONEq(t, string(first), string(got))

	second, err := session.EncodeRecord(Session(time.Unix(1_800_000_000, 0)))
	require.NoError(t, err)
	require.NoError(t, p.Save(ctx, second))

	got, err = p.Load(ctx)
	require.NoError(t, err)
	require.JSONEq(t, string(second), string(got), "save replaces the whole record")

	require.NoError(t, p.Clear(ctx))
	_, err = p.Load(ctx)
	require.ErrorIs(t, err, session.ErrNoRecord)
}
