package sefaria

import (
	"regexp"
	"strings"
)

// fillerWords matches locale qualifiers the generative model sometimes
// injects before section names ("Parashat Nitzavim 4" instead of
// "Nitzavim.4"). The repository's address parser rejects them.
var fillerWords = regexp.MustCompile(`(?i)(parashat|parshat|perek)\s`)

// segmentSuffix matches a trailing segment index such as ":7" or ".4"
var segmentSuffix = regexp.MustCompile(`[:.]\d+$`)

// NormalizeRef converts a model-emitted reference string into the addressing
// format the repository API expects: filler qualifiers stripped, interior
// spaces replaced with underscores. Idempotent.
func NormalizeRef(ref string) string {
	if ref == "" {
		return ""
	}
	cleaned := fillerWords.ReplaceAllString(strings.TrimSpace(ref), "")
	return strings.ReplaceAll(cleaned, " ", "_")
}

// hasSegmentSuffix reports whether ref already ends in a verse/segment index
func hasSegmentSuffix(ref string) bool {
	return segmentSuffix.MatchString(strings.TrimSpace(ref))
}
