// Package cli wires the backoffice command tree: the API server and an
// admin client that keeps its session on disk between invocations.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shopadmin/backoffice/internal/client/apiclient"
	"github.com/shopadmin/backoffice/internal/client/guard"
	"github.com/shopadmin/backoffice/internal/client/session"
	"github.com/shopadmin/backoffice/internal/infrastructure/config"
)

// RedirectError reports that the route guard refused a command.
type RedirectError struct {
	Decision guard.Decision
	Target   string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("not allowed here (%s), go to %s", e.Decision, e.Target)
}

// app is the client-side state shared by every client command. It is built
// on first use so that serve never touches the session file.
type app struct {
	client *apiclient.Client
	state  *session.State
}

func (a *app) init(ctx context.Context) error {
	if a.state != nil {
		return nil
	}
	cfg, err := config.LoadClient(ctx)
	if err != nil {
		return err
	}
	state := session.New(session.NewFileStore(cfg.SessionFile))
	if err := state.Hydrate(); err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	a.client = apiclient.New(cfg.APIURL)
	a.state = state
	return nil
}

// navigate runs the guard for path against the hydrated session. A refusal
// because of role raises the no-access banner like a server 403 would.
func (a *app) navigate(path string) error {
	snap := a.state.Snapshot()
	_, decision := guard.Check(path, snap.LoggedIn, snap.RoleID)
	if decision == guard.Allow {
		return nil
	}
	if decision == guard.RedirectUnauthorized {
		a.state.OnForbidden()
	}
	return &RedirectError{Decision: decision, Target: guard.Target(decision)}
}

// report feeds a failed call into the session before handing it back.
func (a *app) report(err error) error {
	if err != nil {
		a.state.Report(err)
	}
	return err
}

// flushBanner prints the pending banner once and clears it.
func (a *app) flushBanner(w io.Writer) {
	if a.state == nil {
		return
	}
	if banner := a.state.Banner(); banner != "" {
		fmt.Fprintln(w, banner)
		a.state.DismissBanners()
	}
}

// clientCommand adapts fn into a RunE that prepares the session first and
// always shows the resulting banner.
func (a *app) clientCommand(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.init(cmd.Context()); err != nil {
			return err
		}
		err := fn(cmd, args)
		a.flushBanner(cmd.ErrOrStderr())
		return err
	}
}

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "backoffice",
		Short:         "Shop back-office auth service and admin client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(),
		newSignUpCommand(a),
		newLogInCommand(a),
		newLogOutCommand(a),
		newWhoAmICommand(a),
		newRolesCommand(a),
		newUsersCommand(a),
		newAccountCommand(a),
	)
	return root
}

// Execute runs the root command and prints the error, if any, to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return err
}
