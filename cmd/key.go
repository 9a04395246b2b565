package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/summ/internal/domain"
	"github.com/spf13/cobra"
)

func newKeyCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the Gemini API key",
	}

	cmd.AddCommand(newKeySetCmd(app))

	return cmd
}

func newKeySetCmd(app *app) *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the Gemini API key in the secret store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value = strings.TrimSpace(value)
			if value == "" {
				return fmt.Errorf("api key is empty: %w", domain.ErrValidation)
			}

			ref := app.cfg.Summarizer.APIKeyRef
			if err := app.secrets.Put(cmd.Context(), ref, value); err != nil {
				return fmt.Errorf("store api key: %w", err)
			}
			app.log.Info(cmd.Context(), "api key stored", "ref", ref)

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "API key stored as %s.\n", ref)
			return err
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "API key value")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}
