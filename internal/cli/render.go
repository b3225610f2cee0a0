package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mekorot-project/mekorot/internal/model"
	"github.com/mekorot-project/mekorot/internal/sefaria"
)

// Terminal rendering. Quotes carry <b> emphasis markup for web frontends;
// the terminal gets them stripped. --json prints the structures untouched.

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printSource(w io.Writer, i int, src model.Source) {
	fmt.Fprintf(w, "%d. %s  [%s]\n", i, src.DisplayName, src.Category)
	fmt.Fprintf(w, "   %s\n", strings.TrimSpace(sefaria.StripTags(src.Quote)))
	if src.Link != "" {
		fmt.Fprintf(w, "   %s\n", src.Link)
	}
	fmt.Fprintln(w)
}

func printSimpleResponse(w io.Writer, resp *model.SimpleResponse) {
	fmt.Fprintf(w, "Sources (%d):\n\n", len(resp.Sources))
	for i, src := range resp.Sources {
		printSource(w, i+1, src)
	}

	if resp.Summary != "" {
		fmt.Fprintf(w, "Summary:\n%s\n\n", strings.TrimSpace(sefaria.StripTags(resp.Summary)))
	}
	printFollowUps(w, resp.FollowUps)
}

func printDisputeResponse(w io.Writer, resp *model.DisputeResponse) {
	for i, d := range resp.Disputes {
		fmt.Fprintf(w, "Dispute %d: %s\n\n", i+1, d.Topic)
		for j, op := range d.Opinions {
			fmt.Fprintf(w, "  Opinion %d: %s\n\n", j+1, strings.TrimSpace(sefaria.StripTags(op.Summary)))
			for k, src := range op.Sources {
				fmt.Fprintf(w, "  ")
				printSource(w, k+1, src)
			}
		}
	}

	if resp.Summary != "" {
		fmt.Fprintf(w, "Summary:\n%s\n\n", strings.TrimSpace(sefaria.StripTags(resp.Summary)))
	}
	printFollowUps(w, resp.FollowUps)
}

func printWebResult(w io.Writer, result *model.WebResult) {
	if result.ShortSummary != "" {
		fmt.Fprintf(w, "%s\n\n", result.ShortSummary)
	}
	if result.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", result.Summary)
	}
	if len(result.Sources) > 0 {
		fmt.Fprintln(w, "Sources:")
		for _, src := range result.Sources {
			fmt.Fprintf(w, "  - %s\n    %s\n", src.Title, src.URI)
		}
	}
}

func printFollowUps(w io.Writer, followUps []string) {
	if len(followUps) == 0 {
		return
	}
	fmt.Fprintln(w, "Follow-up questions:")
	for _, q := range followUps {
		fmt.Fprintf(w, "  - %s\n", q)
	}
}
