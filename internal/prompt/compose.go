// Package prompt renders sampled pairs into the analysis instruction sent to
// a generation backend.
package prompt

import (
	"fmt"
	"strings"

	"github.com/abdulachik/redditcompat/internal/sampler"
)

const (
	// MaxExcerptLength is the number of characters kept from each side of a pair.
	MaxExcerptLength = 300
	ellipsis         = "..."
)

// Compose builds the analysis prompt for two accounts and their samples.
// Account names are inserted as given.
func Compose(account1, account2 string, samples sampler.SampleSet) string {
	var pairs strings.Builder
	for i, p := range samples {
		fmt.Fprintf(&pairs, pairTemplate,
			i+1,
			account1, Truncate(p.A, MaxExcerptLength),
			account2, Truncate(p.B, MaxExcerptLength),
		)
	}

	var sections strings.Builder
	for _, s := range Sections {
		fmt.Fprintf(&sections, "\n### %s\n%s\n", s.Heading, s.Instruction)
	}

	return fmt.Sprintf(analysisTemplate, account1, account2, pairs.String(), sections.String())
}

// Truncate cuts s to maxLen characters and appends an ellipsis when it was longer.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + ellipsis
}
