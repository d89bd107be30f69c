package ui

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aussiebroadwan/kyc/internal/query"
	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
)

// Paths of the application's screens.
const (
	PathHome        = "/"
	PathProfile     = "/profile"
	PathSubmissions = "/officer/submissions"
	PathLogin       = "/login"
)

// OfficerRoles may review submissions.
var OfficerRoles = []kycsdk.Role{kycsdk.RoleAdmin, kycsdk.RoleModerator}

// Profiles exposes the signed-in user's stored profile.
type Profiles interface {
	CurrentUser() (kycsdk.User, bool)
}

// API is the upstream surface the screens read from.
type API interface {
	Me(ctx context.Context) (*kycsdk.UserResponse, error)
	ListUsers(ctx context.Context, limit, skip int) (*kycsdk.ListUsersResponse, error)
}

// Home greets the user with their live profile.
func Home(api API, queries *query.Client) Screen {
	return ScreenFunc(func(ctx context.Context, w io.Writer) error {
		me, err := query.Query(ctx, queries, func(ctx context.Context) (*kycsdk.UserResponse, error) {
			return api.Me(ctx)
		})
		if err != nil {
			_, _ = fmt.Fprintln(w, "Could not load your profile.")
			return nil
		}

		u := me.User()
		_, _ = fmt.Fprintf(w, "Welcome back, %s!\n", u.DisplayName())
		if u.Role != "" {
			_, _ = fmt.Fprintf(w, "Signed in as %s (%s)\n", u.Username, u.Role)
		}
		return nil
	})
}

// Profile shows the stored profile without touching the network.
func Profile(p Profiles) Screen {
	return ScreenFunc(func(_ context.Context, w io.Writer) error {
		u, ok := p.CurrentUser()
		if !ok {
			_, _ = fmt.Fprintln(w, "No profile loaded.")
			return nil
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(tw, "Name:\t%s\n", u.DisplayName())
		_, _ = fmt.Fprintf(tw, "Username:\t%s\n", u.Username)
		_, _ = fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
		_, _ = fmt.Fprintf(tw, "Role:\t%s\n", orDash(string(u.Role)))
		return tw.Flush()
	})
}

// Submissions lists people awaiting KYC review.
func Submissions(api API, queries *query.Client, pageSize int) Screen {
	return ScreenFunc(func(ctx context.Context, w io.Writer) error {
		page, err := query.Query(ctx, queries, func(ctx context.Context) (*kycsdk.ListUsersResponse, error) {
			return api.ListUsers(ctx, pageSize, 0)
		})
		if err != nil {
			_, _ = fmt.Fprintln(w, "Could not load submissions.")
			return nil
		}

		_, _ = fmt.Fprintf(w, "KYC submissions (%d of %d)\n", len(page.Users), page.Total)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE")
		for _, u := range page.Users {
			su := u.User()
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", su.ID, su.DisplayName(), su.Email, orDash(string(su.Role)))
		}
		return tw.Flush()
	})
}

// Login tells the user how to sign in.
func Login() Screen {
	return ScreenFunc(func(_ context.Context, w io.Writer) error {
		_, _ = fmt.Fprintln(w, "You are not signed in. Run `kyc login` to continue.")
		return nil
	})
}

// Denied is shown in place of a screen the user's role may not open.
func Denied(p Profiles) Screen {
	return ScreenFunc(func(_ context.Context, w io.Writer) error {
		role := "-"
		if p != nil {
			if u, ok := p.CurrentUser(); ok {
				role = orDash(string(u.Role))
			}
		}
		_, _ = fmt.Fprintf(w, "Access denied. Your role (%s) cannot open this page.\n", role)
		return nil
	})
}

// NotFound is shown for unknown paths.
func NotFound() Screen {
	return ScreenFunc(func(_ context.Context, w io.Writer) error {
		_, _ = fmt.Fprintln(w, "Page Not Found")
		return nil
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
