package kycsdk_test

import (
	"testing"

	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, ok := kycsdk.ParseRole(" Admin ")
	require.True(t, ok)
	require.Equal(t, kycsdk.RoleAdmin, r)

	_, ok = kycsdk.ParseRole("officer")
	require.False(t, ok)

	_, ok = kycsdk.ParseRole("")
	require.False(t, ok)
}

func TestUserMerge(t *testing.T) {
	t.Parallel()

	base := kycsdk.User{ID: "1", Username: "emilys", Email: "e@x.test"}
	merged := base.Merge(kycsdk.User{Role: kycsdk.RoleModerator, FirstName: "Emily", Email: ""})

	require.Equal(t, "1", merged.ID)
	require.Equal(t, "e@x.test", merged.Email)
	require.Equal(t, kycsdk.RoleModerator, merged.Role)
	require.Equal(t, "Emily", merged.DisplayName())
	require.Equal(t, "emilys", base.DisplayName())
}
