package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	followQuery   string
	followSummary string
	followTimeout time.Duration
)

// followupCmd represents the followup command
var followupCmd = &cobra.Command{
	Use:   "followup <question>",
	Short: "Ask a clarifying question about an earlier answer",
	Long: `Followup answers a clarifying question in the context of an earlier
search: pass the original question and the summary you received. No new
sources are fetched and none are cited; the reply is plain text.

Example:
  mekorot followup --query "דין ברכה על מים" --summary "..." "ומה לגבי מים בתוך הסעודה?"`,
	Args: cobra.ExactArgs(1),
	RunE: runFollowup,
}

func init() {
	rootCmd.AddCommand(followupCmd)

	followupCmd.Flags().StringVar(&followQuery, "query", "", "the original question (required)")
	followupCmd.Flags().StringVar(&followSummary, "summary", "", "the summary the original question produced (required)")
	followupCmd.Flags().DurationVar(&followTimeout, "timeout", 2*time.Minute, "overall timeout")
	_ = followupCmd.MarkFlagRequired("query")
	_ = followupCmd.MarkFlagRequired("summary")
}

func runFollowup(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), followTimeout)
	defer cancel()

	searcher, _, err := newSearcher(ctx)
	if err != nil {
		return err
	}

	answer, err := searcher.FollowUp(ctx, args[0], followQuery, followSummary, language())
	if err != nil {
		return fmt.Errorf("follow-up failed: %w", err)
	}

	fmt.Println(answer)
	return nil
}
