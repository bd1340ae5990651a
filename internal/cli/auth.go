package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopadmin/backoffice/internal/client/guard"
)

type credentialFlags struct {
	email    string
	password string
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
}

func newSignUpCommand(a *app) *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Creates a customer account",
		Args:  cobra.NoArgs,
		RunE: a.clientCommand(func(cmd *cobra.Command, _ []string) error {
			if err := a.navigate(string(guard.ViewRegister)); err != nil {
				return err
			}
			msg, err := a.client.SignUp(cmd.Context(), creds.email, creds.password)
			if err != nil {
				return a.report(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		}),
	}
	creds.bind(cmd)
	return cmd
}

func newLogInCommand(a *app) *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Logs in and stores the session",
		Args:  cobra.NoArgs,
		RunE: a.clientCommand(func(cmd *cobra.Command, _ []string) error {
			if err := a.navigate(string(guard.ViewLogin)); err != nil {
				return err
			}
			res, err := a.client.LogIn(cmd.Context(), creds.email, creds.password)
			if err != nil {
				return a.report(err)
			}
			if err := a.state.OnLoginSuccess(res.Token, res.UserID, res.RoleID, res.ExpiresAt); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		}),
	}
	creds.bind(cmd)
	return cmd
}

func newLogOutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forgets the stored session",
		Args:  cobra.NoArgs,
		RunE: a.clientCommand(func(cmd *cobra.Command, _ []string) error {
			if err := a.navigate(string(guard.ViewLogout)); err != nil {
				return err
			}
			if err := a.state.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		}),
	}
}

func newWhoAmICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Shows the stored session",
		Args:  cobra.NoArgs,
		RunE: a.clientCommand(func(cmd *cobra.Command, _ []string) error {
			snap := a.state.Snapshot()
			out := cmd.OutOrStdout()
			if !snap.LoggedIn {
				fmt.Fprintln(out, "not logged in")
				return nil
			}
			names := a.roleNames(cmd.Context())
			fmt.Fprintf(out, "user %s (role %s)\n", snap.UserID, roleLabel(names, snap.RoleID))
			return nil
		}),
	}
}
