package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rohmanhakim/docuprism/internal/document"
	"github.com/rohmanhakim/docuprism/internal/history"
	"github.com/rohmanhakim/docuprism/internal/mdformat"
	"github.com/rohmanhakim/docuprism/internal/sanitizer"
	"github.com/spf13/cobra"
)

const listPreviewRunes = 60

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage saved analyses",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved analyses, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			analyses, err := a.history.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(analyses) == 0 {
				fmt.Fprintln(out, "No saved analyses.")
				return nil
			}

			now := time.Now()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSAVED\tOPTIONS\tSUMMARY")
			for _, analysis := range analyses {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					analysis.ID,
					history.FormatTimestamp(analysis.Time(), now),
					optionsLabel(analysis.Options),
					preview(analysis.Summary, listPreviewRunes),
				)
			}
			return w.Flush()
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			analysis, found, err := a.history.Get(args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("analysis %s not found", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:      %s\n", analysis.ID)
			fmt.Fprintf(out, "Saved:   %s (%s)\n",
				analysis.Time().Local().Format(time.RFC3339),
				history.FormatTimestamp(analysis.Time(), time.Now()))
			fmt.Fprintf(out, "Options: %s\n", optionsLabel(analysis.Options))
			if analysis.Options.Context != "" {
				fmt.Fprintf(out, "Context: %s\n", analysis.Options.Context)
			}
			fmt.Fprintf(out, "\n%s\n\n--- input preview ---\n%s\n", analysis.Summary, analysis.InputText)
			return nil
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete one saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			deleted, err := a.history.Delete(args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("analysis %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved analyses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			if err := a.history.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		})
	},
}

var historyInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show history storage usage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			info, err := a.history.Info()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nUsed %s of %s (%.1f%%)\n",
				a.history.Path(),
				document.FormatFileSize(info.Used),
				document.FormatFileSize(info.Available),
				info.Percentage,
			)
			return nil
		})
	},
}

func init() {
	historyCmd.AddCommand(
		historyListCmd,
		historyShowCmd,
		historyDeleteCmd,
		historyClearCmd,
		historyInfoCmd,
	)
}

func optionsLabel(opts history.Options) string {
	return opts.Type + "/" + opts.Format + "/" + opts.Length
}

// preview flattens a markdown summary to one line of at most n runes.
func preview(summary string, n int) string {
	text := strings.Join(strings.Fields(sanitizer.StripHTML(mdformat.ToPlainText(summary))), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n-1]) + "…"
}
