package cmd

import (
	"context"
	"fmt"

	"github.com/rohmanhakim/docuprism/internal/summarizer"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the summarization endpoint is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.CheckTimeout())
			defer cancel()

			availability, err := a.client.Availability(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (model %s)\n", a.cfg.APIBaseURL(), availability, a.cfg.Model())
			if availability != summarizer.Available {
				return err
			}
			return nil
		})
	},
}
