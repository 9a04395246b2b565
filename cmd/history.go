package cmd

import (
	"fmt"
	"strconv"

	"github.com/bnema/summ/internal/adapters/render/view"
	"github.com/bnema/summ/internal/application"
	"github.com/bnema/summ/internal/domain"
	"github.com/bnema/summ/internal/ports"
	"github.com/spf13/cobra"
)

type historyItemOutput struct {
	ID    domain.HistoryEntryID `json:"id"`
	Label string                `json:"label"`
}

func newHistoryCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and clear summary history",
	}

	cmd.AddCommand(newHistoryListCmd(app), newHistoryShowCmd(app), newHistoryClearCmd(app))

	return cmd
}

func newHistoryListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List summaries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wb, err := app.resume(cmd.Context())
			if err != nil {
				return err
			}
			if err := wb.LoadHistory(cmd.Context()); err != nil {
				printStatus(cmd, wb.View().Status)
				return reported(err)
			}

			v := wb.View()
			if asJSON {
				items := make([]historyItemOutput, 0, len(v.History))
				for _, item := range v.History {
					if item.Placeholder {
						continue
					}
					items = append(items, historyItemOutput{ID: item.ID, Label: item.Label})
				}
				return writeJSON(cmd.OutOrStdout(), items)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), view.RenderHistory(v.History, v.ClearVisible))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func newHistoryShowCmd(app *app) *cobra.Command {
	var toClipboard bool

	cmd := &cobra.Command{
		Use:   "show <id|index>",
		Short: "Show one summary with its original text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			wb, err := app.resume(ctx)
			if err != nil {
				return err
			}
			if err := wb.LoadHistory(ctx); err != nil {
				printStatus(cmd, wb.View().Status)
				return reported(err)
			}

			id, err := resolveHistoryID(wb.View(), args[0])
			if err != nil {
				return err
			}
			if err := wb.OpenHistoryEntry(ctx, id); err != nil {
				printStatus(cmd, wb.View().Status)
				return reported(err)
			}

			v := wb.View()
			if toClipboard {
				if err := app.copyToClipboard(v.Output); err != nil {
					return fmt.Errorf("copy summary to clipboard: %w", err)
				}
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), view.Render(v))
			return err
		},
	}

	cmd.Flags().BoolVar(&toClipboard, "copy", false, "Copy the summary to the clipboard")

	return cmd
}

func newHistoryClearCmd(app *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every summary in history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wb, err := app.resume(cmd.Context())
			if err != nil {
				return err
			}

			var confirmer ports.Confirmer = newPrompter(cmd)
			if yes {
				confirmer = assumeYes{}
			}

			before := wb.View().Status
			err = wb.ClearHistory(cmd.Context(), confirmer)
			if v := wb.View(); v.Status != before {
				printStatus(cmd, v.Status)
			}

			return reported(err)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// resolveHistoryID accepts either an entry key or a 1-based position in
// the newest-first list.
func resolveHistoryID(v application.View, arg string) (domain.HistoryEntryID, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return domain.HistoryEntryID(arg), nil
	}

	pos := 0
	for _, item := range v.History {
		if item.Placeholder {
			continue
		}
		pos++
		if pos == n {
			return item.ID, nil
		}
	}

	return "", fmt.Errorf("history item %d: %w", n, domain.ErrHistoryEntryNotFound)
}
