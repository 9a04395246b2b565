package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// reportedError marks an error whose user-facing message was already
// printed as a status line.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}

	return reportedError{err: err}
}

func Execute() error {
	rootCmd, cleanup := newRootCmd()
	defer cleanup()

	err := rootCmd.Execute()
	var done reportedError
	if err != nil && !errors.As(err, &done) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}

	return err
}

// newRootCmd returns the command tree and a cleanup func that releases
// the database and log file.
func newRootCmd() (*cobra.Command, func()) {
	rootCmd := &cobra.Command{
		Use:           "summ",
		Short:         "summ: summarize text and PDFs with Gemini",
		Long:          "summ keeps local accounts, sends text or PDF content to the Gemini API for a summary, and keeps a history of every summary you generate.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	app, err := wireApp(viper.New())
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		rootCmd.AddCommand(newVersionCmd())
		return rootCmd, func() {}
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSignupCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newSummarizeCmd(app),
		newHistoryCmd(app),
		newKeyCmd(app),
		newShellCmd(app),
	)

	return rootCmd, func() {
		if err := app.close(); err != nil {
			fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		}
	}
}
