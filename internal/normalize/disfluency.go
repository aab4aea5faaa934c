package normalize

import "regexp"

// defaultDisfluencies is the filler vocabulary removed during normalization.
// Entries carry no clinical content. Note that "actually" and "i mean" double
// as correction markers; because disfluency removal runs first, they only act
// as markers when the disfluency stage is given a different vocabulary.
var defaultDisfluencies = []string{
	"um", "uh", "er", "ah", "like", "you know",
	"i mean", "sort of", "kind of", "kinda", "basically", "actually",
}

// disfluencyRule pairs a vocabulary entry with its compiled matcher.
type disfluencyRule struct {
	term string
	re   *regexp.Regexp
}

// compileDisfluencyRules builds a matcher per vocabulary entry. Each entry is
// matched as a whole word or phrase, case-insensitively, together with an
// optional leading comma and trailing punctuation so the removal does not
// leave orphaned separators behind.
func compileDisfluencyRules(vocab []string) []disfluencyRule {
	rules := make([]disfluencyRule, 0, len(vocab))
	for _, term := range vocab {
		re := regexp.MustCompile(`(?i),?\s*\b` + regexp.QuoteMeta(term) + `\b[,.]?\s*`)
		rules = append(rules, disfluencyRule{term: term, re: re})
	}
	return rules
}

// stripDisfluencies removes every occurrence of each vocabulary entry and
// returns the distinct entries that matched at least once, in vocabulary
// order. Each removal is replaced by a single space; the whitespace
// normalizer collapses the residue later.
func (c *Cleaner) stripDisfluencies(text string) (string, []string) {
	removed := []string{}
	for _, rule := range c.disflRules {
		if !rule.re.MatchString(text) {
			continue
		}
		removed = append(removed, rule.term)
		text = rule.re.ReplaceAllString(text, " ")
	}
	return text, removed
}
