package ui_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/aussiebroadwan/kyc/internal/guard"
	"github.com/aussiebroadwan/kyc/internal/ui"
	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
	"github.com/aussiebroadwan/kyc/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	authed bool
	user   kycsdk.User
}

func (f *fakeSessions) IsAuthenticated(context.Context, bool) bool { return f.authed }
func (f *fakeSessions) CurrentUser() (kycsdk.User, bool)           { return f.user, f.authed }

// flusher records flushes into the same buffer as the screens so ordering
// is visible.
type flusher struct{ out *bytes.Buffer }

func (f flusher) Flush() int {
	f.out.WriteString("<flush>\n")
	return 0
}

func text(s string) ui.Screen {
	return ui.ScreenFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintln(w, s)
		return err
	})
}

func newRouter(s *fakeSessions) (*ui.Router, *bytes.Buffer) {
	var out bytes.Buffer
	r := ui.NewRouter(ui.RouterOptions{
		Guard:   guard.New(s, ui.PathLogin),
		Notices: flusher{out: &out},
		Out:     &out,
		Denied:  ui.Denied(s),
		Logger:  slogx.Discard(),
	})
	r.HandlePublic(ui.PathLogin, text("login"))
	r.Handle(guard.Route{Path: ui.PathHome}, text("home"))
	r.Handle(guard.Route{Path: ui.PathSubmissions, RequiredRoles: ui.OfficerRoles}, text("submissions"))
	return r, &out
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	r, out := newRouter(&fakeSessions{})

	require.NoError(t, r.Open(context.Background(), ui.PathSubmissions))
	require.Equal(t, ui.PathLogin, r.Current())
	require.Equal(t, "login\n<flush>\n", out.String())
}

func TestRestrictedRoleRendersDeniedInPlace(t *testing.T) {
	r, out := newRouter(&fakeSessions{authed: true, user: kycsdk.User{ID: "3", Role: kycsdk.RoleUser}})

	require.NoError(t, r.Open(context.Background(), ui.PathSubmissions))
	require.Equal(t, ui.PathSubmissions, r.Current(), "path does not change")
	require.Contains(t, out.String(), "Access denied. Your role (user)")
	require.NotContains(t, out.String(), "submissions\n")
}

func TestAuthorisedRoleRendersScreen(t *testing.T) {
	r, out := newRouter(&fakeSessions{authed: true, user: kycsdk.User{ID: "2", Role: kycsdk.RoleModerator}})

	require.NoError(t, r.Open(context.Background(), ui.PathSubmissions))
	require.Equal(t, "submissions\n<flush>\n", out.String())
}

func TestNavigateDuringRenderIsDeferred(t *testing.T) {
	s := &fakeSessions{authed: true, user: kycsdk.User{ID: "1"}}
	r, out := newRouter(s)

	r.Handle(guard.Route{Path: "/profile"}, ui.ScreenFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = fmt.Fprintln(w, "profile:start")
		s.authed = false
		r.Navigate(ctx, ui.PathLogin)
		_, _ = fmt.Fprintln(w, "profile:end")
		return nil
	}))

	require.NoError(t, r.Open(context.Background(), "/profile"))
	require.Equal(t, "profile:start\nprofile:end\n<flush>\nlogin\n<flush>\n", out.String())
	require.Equal(t, ui.PathLogin, r.Current())
}

func TestNavigateOutsideRenderOpensImmediately(t *testing.T) {
	r, out := newRouter(&fakeSessions{authed: true})

	r.Navigate(context.Background(), ui.PathHome)
	require.Equal(t, "home\n<flush>\n", out.String())
}

func TestUnknownPath(t *testing.T) {
	r, out := newRouter(&fakeSessions{})

	require.NoError(t, r.Open(context.Background(), "/nope"))
	require.Contains(t, out.String(), "Page Not Found")
}

func TestRedirectLoopIsBounded(t *testing.T) {
	s := &fakeSessions{}
	r := ui.NewRouter(ui.RouterOptions{Guard: guard.New(s, "/a"), Logger: slogx.Discard()})
	r.Handle(guard.Route{Path: "/a"}, text("a"))

	err := r.Open(context.Background(), "/a")
	require.ErrorIs(t, err, ui.ErrRedirectLoop)
}
