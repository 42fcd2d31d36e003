package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rohmanhakim/docuprism/internal/document"
	"github.com/rohmanhakim/docuprism/internal/mdformat"
	"github.com/rohmanhakim/docuprism/internal/pipeline"
	"github.com/rohmanhakim/docuprism/internal/sanitizer"
	"github.com/rohmanhakim/docuprism/internal/storage"
	"github.com/rohmanhakim/docuprism/internal/summarizer"
	"github.com/rohmanhakim/docuprism/pkg/hashutil"
	"github.com/spf13/cobra"
)

var (
	summaryType   string
	summaryFormat string
	summaryLength string
	userContext   string
	saveAnalysis  bool
	asHTML        bool
	showStats     bool
	outputDir     string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize FILE... | -",
	Short: "Summarize one or more documents",
	Long: `Summarize loads each FILE (or standard input for "-") and prints its summary.

Supported inputs are .txt, .md, .html and .htm files. Summaries for the same
text and options are served from the in-process cache, so naming a file
twice only calls the model once.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := summaryOptions()
		if err := opts.Validate(); err != nil {
			return err
		}
		return withApp(func(a *app) error {
			return runSummarize(cmd, a, args, opts)
		})
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&summaryType, "type", string(summarizer.TypeKeyPoints), "summary type: key-points, tldr, teaser, headline")
	summarizeCmd.Flags().StringVar(&summaryFormat, "format", string(summarizer.FormatMarkdown), "summary format: markdown, plain-text")
	summarizeCmd.Flags().StringVar(&summaryLength, "length", string(summarizer.LengthMedium), "summary length: short, medium, long")
	summarizeCmd.Flags().StringVar(&userContext, "context", "", "extra instructions for the summary")
	summarizeCmd.Flags().BoolVar(&saveAnalysis, "save", false, "save the analysis to history")
	summarizeCmd.Flags().BoolVar(&asHTML, "html", false, "print the summary as sanitized HTML")
	summarizeCmd.Flags().BoolVar(&showStats, "stats", false, "print summary cache statistics at the end")
	summarizeCmd.Flags().StringVar(&outputDir, "output-dir", "", "also write each summary to a file in this directory")
}

// summaryOptions reads the option flags, falling back to the defaults for
// flags left empty.
func summaryOptions() summarizer.Options {
	opts := summarizer.DefaultOptions()
	if summaryType != "" {
		opts.Type = summarizer.Type(summaryType)
	}
	if summaryFormat != "" {
		opts.Format = summarizer.Format(summaryFormat)
	}
	if summaryLength != "" {
		opts.Length = summarizer.Length(summaryLength)
	}
	opts.Context = userContext
	return opts
}

func runSummarize(cmd *cobra.Command, a *app, paths []string, opts summarizer.Options) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	var errs []error
	for i, path := range paths {
		if len(paths) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "==> %s <==\n", path)
		}

		doc, err := a.loadDocument(cmd.InOrStdin(), path)
		if err != nil {
			fmt.Fprintf(errOut, "Error: %s: %s\n", path, err)
			errs = append(errs, err)
			continue
		}

		result, err := a.pipeline.Summarize(cmd.Context(), doc.Text, opts, saveAnalysis)
		if err != nil {
			fmt.Fprintf(errOut, "Error: %s: %s\n", path, err)
			errs = append(errs, err)
			continue
		}

		rendered, ext := renderSummary(result.Summary, opts.Format, asHTML)
		fmt.Fprintln(out, rendered)
		printResultNote(errOut, doc, result)

		if outputDir != "" {
			file := storage.NewSummaryFile(path, a.pipeline.CacheKey(doc.Text, opts), []byte(rendered+"\n"), ext)
			written, err := a.storage.Write(outputDir, file, hashutil.HashAlgoBLAKE3)
			if err != nil {
				fmt.Fprintf(errOut, "Error: %s: %s\n", path, err)
				errs = append(errs, err)
				continue
			}
			fmt.Fprintf(errOut, "wrote %s\n", written.Path())
		}
	}

	if showStats {
		printCacheStats(out, a)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d documents failed: %w", len(errs), len(paths), errors.Join(errs...))
	}
	return nil
}

// renderSummary turns the raw model output into its printed form and
// returns the file extension matching that form.
func renderSummary(summary string, format summarizer.Format, html bool) (string, string) {
	switch {
	case html && format == summarizer.FormatPlainText:
		return "<p>" + sanitizer.EscapeHTML(summary) + "</p>", "html"
	case html:
		return strings.TrimSpace(mdformat.Format(summary)), "html"
	case format == summarizer.FormatPlainText:
		return mdformat.ToPlainText(summary), "txt"
	default:
		return summary, "md"
	}
}

func printResultNote(errOut io.Writer, doc document.Document, result pipeline.Result) {
	switch {
	case result.FromCache:
		fmt.Fprintf(errOut, "(cached, %d words)\n", doc.WordCount)
	case result.AnalysisID != "":
		fmt.Fprintf(errOut, "(%s, %d words, saved as %s)\n", result.Language, doc.WordCount, result.AnalysisID)
	default:
		fmt.Fprintf(errOut, "(%s, %d words)\n", result.Language, doc.WordCount)
	}
}

func printCacheStats(out io.Writer, a *app) {
	stats := a.pipeline.CacheStats()
	fmt.Fprintf(out, "\nCache: %d/%d entries (%d%%), ttl %s\n", stats.Size, stats.MaxSize, stats.Percentage, stats.TTL)
}
