package normalize

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun    = regexp.MustCompile(`\s+`)
	spaceBeforePunct = regexp.MustCompile(`\s+([,.?!])`)
	commaRun         = regexp.MustCompile(`,+`)
	periodRun        = regexp.MustCompile(`\.{2,}`)
)

// normalizeWhitespace collapses the residue left behind by the removal and
// replacement stages: whitespace runs become one space, spaces before
// sentence punctuation are dropped, repeated commas and periods collapse,
// and the result is trimmed. Purely cosmetic, no semantic decisions; the
// pass is idempotent.
func normalizeWhitespace(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = commaRun.ReplaceAllString(text, ",")
	text = periodRun.ReplaceAllString(text, ".")
	return strings.TrimSpace(text)
}
