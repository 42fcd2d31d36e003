package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect FILE | -",
	Short: "Detect the language of a document",
	Long: `Detect prints the language the summary of FILE would be written in.

The model is asked first; without an answer above 50% confidence, or in
--offline mode, a local stop-word heuristic decides. English is the
fallback.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			doc, err := a.loadDocument(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.resolver.Resolve(cmd.Context(), doc.Text))
			return nil
		})
	},
}
