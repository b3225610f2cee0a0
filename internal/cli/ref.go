package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mekorot-project/mekorot/internal/sefaria"
)

var refTimeout time.Duration

// refCmd represents the ref command
var refCmd = &cobra.Command{
	Use:   "ref <reference>",
	Short: "Fetch and print one repository text",
	Long: `Ref fetches a single reference from the text repository and prints
its full text. Useful for inspecting a source from a search result, or
for checking how a reference resolves.

Example:
  mekorot ref "Shulchan Arukh, Orach Chayim 168:7"
  mekorot ref Genesis.1.1`,
	Args: cobra.ExactArgs(1),
	RunE: runRef,
}

func init() {
	rootCmd.AddCommand(refCmd)

	refCmd.Flags().DurationVar(&refTimeout, "timeout", time.Minute, "overall timeout")
}

func runRef(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), refTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := sefaria.NewClient(cfg.Sefaria, nil, cfg.Output.Verbose)

	record, err := client.FetchText(ctx, args[0])
	if err != nil {
		var notFound *sefaria.NotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("reference %q does not resolve: %s", args[0], notFound.Message)
		}
		return fmt.Errorf("fetch failed: %w", err)
	}

	if cfg.Output.JSON {
		return printJSON(os.Stdout, record)
	}

	fmt.Printf("%s", record.Ref)
	if record.HeRef != "" {
		fmt.Printf("  (%s)", record.HeRef)
	}
	fmt.Printf("\n\n%s\n", record.Text)
	return nil
}
