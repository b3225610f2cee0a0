package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	disputesScope   string
	disputesTimeout time.Duration
)

// disputesCmd represents the disputes command
var disputesCmd = &cobra.Command{
	Use:   "disputes <question>",
	Short: "Map the spread of opinions on a topic",
	Long: `Disputes finds sources representing different positions on a
question and groups them by opinion. Every cited quote goes through the
same containment verification as a plain search; opinions that end up
with no verified sources are dropped.

Example:
  mekorot disputes "האם מותר לטלטל מוקצה בשינוי"
  mekorot disputes --scope Halakhah "eating before Kiddush"`,
	Args: cobra.ExactArgs(1),
	RunE: runDisputes,
}

func init() {
	rootCmd.AddCommand(disputesCmd)

	disputesCmd.Flags().StringVar(&disputesScope, "scope", "", "restrict the search scope (category or book name)")
	disputesCmd.Flags().DurationVar(&disputesTimeout, "timeout", 8*time.Minute, "overall analysis timeout")
}

func runDisputes(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), disputesTimeout)
	defer cancel()

	searcher, cfg, err := newSearcher(ctx)
	if err != nil {
		return err
	}

	resp, err := searcher.AnalyzeDisputes(ctx, query, disputesScope, language())
	if err != nil {
		return fmt.Errorf("dispute analysis failed: %w", err)
	}

	if cfg.Output.JSON {
		return printJSON(os.Stdout, resp)
	}
	printDisputeResponse(os.Stdout, resp)
	return nil
}
