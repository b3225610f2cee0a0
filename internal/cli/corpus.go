package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/google/uuid"

	"github.com/mekorot-project/mekorot/internal/model"
	"github.com/mekorot-project/mekorot/internal/search"
)

var (
	corpusFile    string
	corpusName    string
	corpusLimit   int
	corpusTimeout time.Duration
)

// corpusCmd represents the corpus command
var corpusCmd = &cobra.Command{
	Use:   "corpus <question>",
	Short: "Search a personal text file instead of the repository",
	Long: `Corpus searches a user-supplied text file. The file is cut into
overlapping chunks, each chunk is scanned for relevant passages in
parallel, and the union is filtered down to the passages that actually
answer the question. Quotes are verified against the file content.

Corpus sources are personal: they carry no repository reference or link.

Example:
  mekorot corpus --file shiurim.txt "מה נאמר על תפילת הדרך"`,
	Args: cobra.ExactArgs(1),
	RunE: runCorpus,
}

func init() {
	rootCmd.AddCommand(corpusCmd)

	corpusCmd.Flags().StringVar(&corpusFile, "file", "", "path of the text file to search (required)")
	corpusCmd.Flags().StringVar(&corpusName, "name", "", "display name for the corpus (default: file name)")
	corpusCmd.Flags().IntVar(&corpusLimit, "limit", 0, "maximum sources (0 = default)")
	corpusCmd.Flags().DurationVar(&corpusTimeout, "timeout", 10*time.Minute, "overall search timeout")
	_ = corpusCmd.MarkFlagRequired("file")
}

func runCorpus(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), corpusTimeout)
	defer cancel()

	content, err := os.ReadFile(corpusFile)
	if err != nil {
		return fmt.Errorf("read corpus file: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return fmt.Errorf("corpus file %s is empty", corpusFile)
	}

	name := corpusName
	if name == "" {
		name = filepath.Base(corpusFile)
	}

	searcher, cfg, err := newSearcher(ctx)
	if err != nil {
		return err
	}

	var progress search.ProgressFunc
	if verbose && !cfg.Output.JSON {
		progress = func(percent int, stage search.Stage) {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", percent, stage)
		}
	}

	corpus := model.Corpus{
		ID:      uuid.NewString(),
		Name:    name,
		Content: string(content),
	}

	resp, err := searcher.SearchCorpus(ctx, query, corpus, corpusLimit, language(), progress)
	if err != nil {
		return fmt.Errorf("corpus search failed: %w", err)
	}

	if cfg.Output.JSON {
		return printJSON(os.Stdout, resp)
	}
	if len(resp.Sources) == 0 {
		fmt.Println("No relevant passages found in the corpus.")
		return nil
	}
	printSimpleResponse(os.Stdout, resp)
	return nil
}
