package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rohmanhakim/docuprism/internal/mdformat"
	"github.com/spf13/cobra"
)

var (
	renderInline bool
	renderPlain  bool
)

var renderCmd = &cobra.Command{
	Use:   "render FILE | -",
	Short: "Render markdown to sanitized HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if renderInline && renderPlain {
			return fmt.Errorf("--inline and --plain cannot be combined")
		}
		md, err := readMarkdown(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		var rendered string
		switch {
		case renderPlain:
			rendered = mdformat.ToPlainText(md)
		case renderInline:
			rendered = mdformat.FormatInline(md)
		default:
			rendered = mdformat.Format(md)
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(rendered))
		return nil
	},
}

func init() {
	renderCmd.Flags().BoolVar(&renderInline, "inline", false, "render without the wrapping paragraph")
	renderCmd.Flags().BoolVar(&renderPlain, "plain", false, "strip markdown syntax instead of rendering HTML")
}

func readMarkdown(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read standard input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
