package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var webTimeout time.Duration

// webCmd represents the web command
var webCmd = &cobra.Command{
	Use:   "web <question>",
	Short: "Answer a general question from live web results",
	Long: `Web answers a question using the model's web-search grounding and
lists the links it actually consulted. This path bypasses the text
repository entirely; nothing here is quote-verified.

Requires the gemini provider.

Example:
  mekorot web "מתי חל פסח השנה"`,
	Args: cobra.ExactArgs(1),
	RunE: runWeb,
}

func init() {
	rootCmd.AddCommand(webCmd)

	webCmd.Flags().DurationVar(&webTimeout, "timeout", 3*time.Minute, "overall timeout")
}

func runWeb(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), webTimeout)
	defer cancel()

	searcher, cfg, err := newSearcher(ctx)
	if err != nil {
		return err
	}

	result, err := searcher.WebSearch(ctx, args[0], language())
	if err != nil {
		return fmt.Errorf("web search failed: %w", err)
	}

	if cfg.Output.JSON {
		return printJSON(os.Stdout, result)
	}
	printWebResult(os.Stdout, result)
	return nil
}
