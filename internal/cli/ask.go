package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mekorot-project/mekorot/internal/model"
)

var (
	askScope   string
	askLimit   int
	askBroad   bool
	askTimeout time.Duration
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Search for verified sources answering a question",
	Long: `Ask runs the full source-search pipeline:
- The model proposes candidate references within the scope
- Every reference is fetched from the text repository in parallel
- A single verification pass selects quotes, which are then checked
  for literal containment in the retrieved texts

Only sources whose quotes survive containment checking are shown.

Example:
  mekorot ask "מהו דין ברכה על מים"
  mekorot ask --scope Halakhah --limit 5 "laws of the Shema"
  mekorot ask --broad "מקורות על כוונה בתפילה"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askScope, "scope", "", "restrict the search scope (category or book name)")
	askCmd.Flags().IntVar(&askLimit, "limit", 0, "maximum sources (0 = mode default)")
	askCmd.Flags().BoolVar(&askBroad, "broad", false, "low relevance threshold, prefer inclusion")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 5*time.Minute, "overall search timeout")
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	searcher, cfg, err := newSearcher(ctx)
	if err != nil {
		return err
	}

	mode := model.ModePrecise
	if askBroad {
		mode = model.ModeBroad
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Searching (%s mode): %s\n", mode, query)
		if askScope != "" {
			fmt.Fprintf(os.Stderr, "Scope: %s\n", askScope)
		}
		fmt.Fprintln(os.Stderr)
	}

	resp, err := searcher.Search(ctx, query, askScope, askLimit, mode, language())
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if cfg.Output.JSON {
		return printJSON(os.Stdout, resp)
	}
	printSimpleResponse(os.Stdout, resp)
	return nil
}
