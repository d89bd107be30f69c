package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/kyc/internal/errhandler"
	"github.com/aussiebroadwan/kyc/internal/query"
	"github.com/aussiebroadwan/kyc/internal/session"
	"github.com/aussiebroadwan/kyc/internal/ui"
	"github.com/aussiebroadwan/kyc/pkg/kycsdk"
)

// ErrReported marks failures already shown to the user.
var ErrReported = errors.New("kyc: reported")

// NewRootCommand builds the kyc command tree. opts are passed to every
// Application the commands create.
func NewRootCommand(opts ...Option) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "kyc",
		Short:         "KYC review client",
		Version:       BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", getEnvOrDefault("KYC_CONFIG", ""), "path to a YAML config file")

	withApp := func(fn func(ctx context.Context, cmd *cobra.Command, app *Application, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			appOpts := append([]Option{WithOutput(cmd.OutOrStdout())}, opts...)
			app, err := New(ctx, cfg, appOpts...)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return fn(app.Context(ctx), cmd, app, args)
		}
	}

	root.AddCommand(
		newLoginCommand(withApp),
		newLogoutCommand(withApp),
		newStatusCommand(withApp),
		newOpenCommand(withApp),
		newProfileCommand(withApp),
		newStubServerCommand(&configPath),
	)
	return root
}

type appRunner = func(fn func(ctx context.Context, cmd *cobra.Command, app *Application, args []string) error) func(*cobra.Command, []string) error

func newLoginCommand(withApp appRunner) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and open the home screen",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *Application, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if username == "" {
				if username, err = prompt(in, cmd.OutOrStdout(), "Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt(in, cmd.OutOrStdout(), "Password: "); err != nil {
					return err
				}
			}

			// Login failures are shown inline instead of through the global handler.
			sess, err := query.Mutate(ctx, app.Queries, func(ctx context.Context) (session.Session, error) {
				return app.Sessions.Login(ctx, username, password)
			}, query.OnError(func(err error) {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Login failed: %s\n", loginMessage(err))
			}))
			if err != nil {
				return ErrReported
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", sess.User.DisplayName())
			return app.Router.Open(ctx, ui.PathHome)
		}),
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func loginMessage(err error) string {
	var ce *kycsdk.ClassifiedError
	switch {
	case errors.As(err, &ce):
		return ce.Message
	case errors.Is(err, session.ErrIncompleteSession):
		return "the server returned an incomplete session."
	default:
		return errhandler.MsgUnexpected
	}
}

func newLogoutCommand(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *Application, _ []string) error {
			app.Sessions.Logout(ctx)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		}),
	}
}

func newStatusCommand(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, app *Application, _ []string) error {
			out := cmd.OutOrStdout()
			defer app.FlushNotices()

			if !app.Sessions.IsAuthenticated(ctx, true) {
				_, _ = fmt.Fprintln(out, "Not signed in.")
				return nil
			}

			sess, _ := app.Sessions.Current()
			_, _ = fmt.Fprintf(out, "Signed in as %s (%s)\n", sess.User.Username, roleOrDash(sess.User.Role))
			if exp, err := sess.ExpiresAt(); err == nil {
				_, _ = fmt.Fprintf(out, "Session expires %s\n", exp.Local().Format(time.DateTime))
			}
			return nil
		}),
	}
}

func newOpenCommand(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "open [path]",
		Short: "Render a screen (/, /profile, /officer/submissions)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, app *Application, args []string) error {
			path := ui.PathHome
			if len(args) == 1 {
				path = args[0]
			}
			return app.Router.Open(ctx, path)
		}),
	}
}

func newProfileCommand(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in profile",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, app *Application, _ []string) error {
			return app.Router.Open(ctx, ui.PathProfile)
		}),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-name <first> <last>",
		Short: "Update your first and last name",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, app *Application, args []string) error {
			if !app.Sessions.IsAuthenticated(ctx, true) {
				return app.Router.Open(ctx, ui.PathProfile)
			}
			current, _ := app.Sessions.CurrentUser()

			updated, err := query.Mutate(ctx, app.Queries, func(ctx context.Context) (*kycsdk.UserResponse, error) {
				return app.API.UpdateUser(ctx, current.ID, kycsdk.UpdateUserRequest{
					FirstName: args[0],
					LastName:  args[1],
				})
			})
			if err != nil {
				app.FlushNotices()
				return ErrReported
			}

			app.Sessions.SetUser(ctx, current.Merge(updated.User()))
			return app.Router.Open(ctx, ui.PathProfile)
		}),
	})
	return cmd
}

func newStubServerCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stub-server",
		Short: "Run a local stand-in for the upstream API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return err
			}
			srv, err := NewStubServer(cfg)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stub API listening on %s\n", cfg.StubAddr)
			return srv.Run(ctx)
		},
	}
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	_, _ = fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func roleOrDash(r kycsdk.Role) string {
	if r == "" {
		return "-"
	}
	return string(r)
}
