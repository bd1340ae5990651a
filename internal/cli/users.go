package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shopadmin/backoffice/internal/client/guard"
	"github.com/shopadmin/backoffice/internal/core/domain"
)

var errNotLoggedIn = errors.New("not logged in, go to " + string(guard.ViewLogin))

// newRolesCommand lists roles the way the add-user form loads them: a
// failure leaves the list empty rather than aborting.
func newRolesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "Lists the available roles",
		Args:  cobra.NoArgs,
		RunE: a.clientCommand(func(cmd *cobra.Command, _ []string) error {
			if err := a.navigate(string(guard.ViewAddUser)); err != nil {
				return err
			}
			roles, err := a.client.Roles(cmd.Context(), a.state.Snapshot().Token)
			if err != nil {
				_ = a.report(err)
				roles = nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME")
			for _, r := range roles {
				fmt.Fprintf(w, "%d\t%s\n", r.ID, r.Name)
			}
			return w.Flush()
		}),
	}
}

func newUsersCommand(a *app) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Administers user accounts",
	}

	users.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lists every account",
		Args:  cobra.NoArgs,
		RunE: a.clientCommand(func(cmd *cobra.Command, _ []string) error {
			if err := a.navigate(string(guard.ViewUsers)); err != nil {
				return err
			}
			list, err := a.client.ListUsers(cmd.Context(), a.state.Snapshot().Token)
			if err != nil {
				return a.report(err)
			}
			return printUsers(cmd.OutOrStdout(), a.roleNames(cmd.Context()), list...)
		}),
	})

	users.AddCommand(&cobra.Command{
		Use:   "show <userId>",
		Short: "Shows one account",
		Args:  cobra.ExactArgs(1),
		RunE: a.clientCommand(func(cmd *cobra.Command, args []string) error {
			if err := a.navigate("/users/" + args[0]); err != nil {
				return err
			}
			user, err := a.client.GetUser(cmd.Context(), a.state.Snapshot().Token, args[0])
			if err != nil {
				return a.report(err)
			}
			return printUsers(cmd.OutOrStdout(), a.roleNames(cmd.Context()), user)
		}),
	})

	users.AddCommand(&cobra.Command{
		Use:   "delete <userId>",
		Short: "Deletes an account",
		Args:  cobra.ExactArgs(1),
		RunE: a.clientCommand(func(cmd *cobra.Command, args []string) error {
			if err := a.navigate("/users/" + args[0] + "/edit"); err != nil {
				return err
			}
			return a.deleteAccount(cmd, args[0])
		}),
	})

	return users
}

// newAccountCommand lets any logged-in user remove their own account.
func newAccountCommand(a *app) *cobra.Command {
	account := &cobra.Command{
		Use:   "account",
		Short: "Manages your own account",
	}
	account.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Deletes your account and logs out",
		Args:  cobra.NoArgs,
		RunE: a.clientCommand(func(cmd *cobra.Command, _ []string) error {
			snap := a.state.Snapshot()
			if !snap.LoggedIn {
				return errNotLoggedIn
			}
			return a.deleteAccount(cmd, snap.UserID)
		}),
	})
	return account
}

func (a *app) deleteAccount(cmd *cobra.Command, userID string) error {
	snap := a.state.Snapshot()
	n, err := a.client.DeleteUser(cmd.Context(), snap.Token, userID)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d account(s)\n", n)
	if n > 0 && userID == snap.UserID {
		return a.state.Logout()
	}
	return nil
}

// roleNames looks role names up on the server. Any failure yields an empty
// map and callers print bare ids.
func (a *app) roleNames(ctx context.Context) map[int]string {
	snap := a.state.Snapshot()
	if !snap.LoggedIn {
		return nil
	}
	roles, err := a.client.Roles(ctx, snap.Token)
	if err != nil {
		return nil
	}
	names := make(map[int]string, len(roles))
	for _, r := range roles {
		names[r.ID] = r.Name
	}
	return names
}

func roleLabel(names map[int]string, id int) string {
	if name := names[id]; name != "" {
		return name
	}
	return strconv.Itoa(id)
}

func printUsers(out io.Writer, names map[int]string, users ...*domain.User) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tROLE\tCREATED")
	for _, u := range users {
		if u == nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Email, roleLabel(names, u.RoleID), u.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}
