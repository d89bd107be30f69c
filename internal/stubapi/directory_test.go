package stubapi

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
)

func TestDirectory(t *testing.T) {
	d, err := NewDirectory(DefaultSeed[:3])
	require.NoError(t, err)

	u, err := d.Authenticate("EmilyS", "emilyspass")
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)

	_, err = d.Authenticate("emilys", "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = d.Authenticate("ghost", "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	users, total := d.List(0, 0)
	require.Equal(t, 3, total)
	require.Len(t, users, 3)

	users, _ = d.List(5, 10)
	require.Empty(t, users)

	u, err = d.Update(2, kycsdk.UpdateUserRequest{Email: "m@example.com"})
	require.NoError(t, err)
	require.Equal(t, "m@example.com", u.Email)
	require.Equal(t, "Michael", u.FirstName)

	_, err = d.Update(42, kycsdk.UpdateUserRequest{})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = NewDirectory([]SeedUser{DefaultSeed[0], DefaultSeed[0]})
	require.Error(t, err)
}
