package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bnema/summ/internal/application"
	"github.com/bnema/summ/internal/domain"
	"github.com/spf13/cobra"
)

type summaryOutput struct {
	Summary   string                `json:"summary"`
	HistoryID domain.HistoryEntryID `json:"history_id,omitempty"`
}

func newSummarizeCmd(app *app) *cobra.Command {
	var (
		text        string
		file        string
		toClipboard bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize text, a .txt/.pdf file, or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			wb, err := app.resume(ctx)
			if err != nil {
				return err
			}

			switch {
			case file != "":
				if err := wb.LoadFile(ctx, application.LoadFileCommand{Path: file}); err != nil {
					printStatus(cmd, wb.View().Status)
					return reported(err)
				}
			case cmd.Flags().Changed("text"):
				wb.SetInput(text)
			default:
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				wb.SetInput(string(data))
			}

			if asJSON {
				err = wb.Summarize(ctx)
			} else {
				err = summarizeWithSpinner(ctx, cmd.ErrOrStderr(), wb.View().Input, wb.Summarize)
			}

			v := wb.View()
			if err != nil {
				if v.Output != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), v.Output)
				}
				printStatus(cmd, v.Status)
				return reported(err)
			}

			if toClipboard {
				if err := app.copyToClipboard(v.Output); err != nil {
					return fmt.Errorf("copy summary to clipboard: %w", err)
				}
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summaryOutput{Summary: v.Output, HistoryID: newestHistoryID(v)})
			}

			if _, err := fmt.Fprintln(cmd.OutOrStdout(), v.Output); err != nil {
				return err
			}
			printStatus(cmd, v.Status)
			if toClipboard {
				printStatus(cmd, application.StatusLine{Message: "Summary copied to clipboard.", Level: application.StatusInfo})
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to summarize")
	cmd.Flags().StringVar(&file, "file", "", "Path to a .txt or .pdf file to summarize")
	cmd.Flags().BoolVar(&toClipboard, "copy", false, "Copy the summary to the clipboard")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	cmd.MarkFlagsMutuallyExclusive("text", "file")

	return cmd
}

func newestHistoryID(v application.View) domain.HistoryEntryID {
	if len(v.History) == 0 || v.History[0].Placeholder {
		return ""
	}

	return v.History[0].ID
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
