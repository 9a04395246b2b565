package cmd

import (
	"fmt"

	"github.com/bnema/summ/internal/adapters/render/view"
	"github.com/bnema/summ/internal/application"
	"github.com/bnema/summ/internal/domain"
	"github.com/spf13/cobra"
)

func newSignupCmd(app *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a local account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := readCredentials(newPrompter(cmd), username, password)
			if err != nil {
				return err
			}

			wb, err := app.workbench(cmd.Context(), app.tokenSessions())
			if err != nil {
				return err
			}
			wb.ShowSignupForm()
			err = wb.Signup(cmd.Context(), creds)
			printStatus(cmd, wb.View().AuthStatus)

			return reported(err)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (prompted when omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")

	return cmd
}

func newLoginCmd(app *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := readCredentials(newPrompter(cmd), username, password)
			if err != nil {
				return err
			}

			wb, err := app.workbench(cmd.Context(), app.tokenSessions())
			if err != nil {
				return err
			}
			if err := wb.Login(cmd.Context(), creds); err != nil {
				printStatus(cmd, wb.View().AuthStatus)
				return reported(err)
			}

			session, _ := wb.Session()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", session.Username)
			return err
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username (prompted when omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wb, err := app.resume(cmd.Context())
			if err != nil {
				return err
			}
			if err := wb.Logout(cmd.Context()); err != nil {
				printStatus(cmd, wb.View().AuthStatus)
				return reported(err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return err
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wb, err := app.resume(cmd.Context())
			if err != nil {
				return err
			}

			session, ok := wb.Session()
			if !ok {
				printStatus(cmd, application.StatusLine{Message: "Not logged in.", Level: application.StatusError})
				return reported(domain.ErrNoSession)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), session.Username)
			return err
		},
	}
}

// printStatus writes a status line to stderr so stdout only carries
// command output.
func printStatus(cmd *cobra.Command, line application.StatusLine) {
	if line.Empty() {
		return
	}

	fmt.Fprintln(cmd.ErrOrStderr(), view.RenderStatus(line))
}
