package session_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/kyc/internal/session"
	"github.com/aussiebroadwan/kyc/internal/session/sessiontest"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name string
		sess session.Session
		want session.Liveness
	}{
		{"absent", session.Session{}, session.Absent},
		{"future exp", sessiontest.Session(now.Add(time.Minute)), session.Live},
		{"past exp", sessiontest.Session(now.Add(-time.Minute)), session.Expired},
		{"exp equals now", sessiontest.Session(now), session.Expired},
		{"not a jwt", session.Session{Token: "opaque"}, session.Malformed},
		{"bad base64", session.Session{Token: "a.$$$.c"}, session.Malformed},
		{"no exp", session.Session{Token: "e30.eyJzdWIiOiIxIn0.c2ln"}, session.Malformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, session.Check(tt.sess, now))
			require.Equal(t, tt.want == session.Live, session.IsValid(tt.sess, now))
		})
	}
}

func TestExpiresAtIsDerivedFromToken(t *testing.T) {
	exp := time.Unix(1_700_000_600, 0)
	got, err := sessiontest.Session(exp).ExpiresAt()
	require.NoError(t, err)
	require.True(t, exp.Equal(got))
}

func TestRecordRoundTrip(t *testing.T) {
	s := sessiontest.Session(time.Unix(1_700_000_000, 0))

	raw, err := session.EncodeRecord(s)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"name":"auth-storage"`)
	require.Contains(t, string(raw), `"version":1`)

	got, err := session.DecodeRecord(raw)
	require.NoError(t, err)
	require.Equal(t, s, got)
}

func TestDecodeRecordRejects(t *testing.T) {
	cases := map[string]string{
		"not json":      `{{`,
		"wrong name":    `{"name":"other","version":1,"state":{}}`,
		"wrong version": `{"name":"auth-storage","version":2,"state":{}}`,
		"token only":    `{"name":"auth-storage","version":1,"state":{"token":"a.b.c"}}`,
		"user only":     `{"name":"auth-storage","version":1,"state":{"user":{"id":"1"}}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := session.DecodeRecord([]byte(raw))
			require.ErrorIs(t, err, session.ErrCorruptRecord)
		})
	}

	t.Run("logged out record", func(t *testing.T) {
		s, err := session.DecodeRecord([]byte(`{"name":"auth-storage","version":1,"state":{"user":null,"token":""}}`))
		require.NoError(t, err)
		require.True(t, s.IsZero())
	})
}
