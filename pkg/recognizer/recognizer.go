// Package recognizer defines the entity recognition boundary used by the
// Sanovox normalization pipeline.
//
// A [Recognizer] tags substrings of an utterance with clinical labels
// (medications, symptoms, body parts) plus the handful of general-purpose
// labels the correction resolver relies on (dates). Whatever label space a
// concrete recognizer uses natively must be mapped into the closed [Label]
// set at this boundary, so downstream code never sees recognizer-specific
// vocabulary.
//
// Spans carry byte offsets into the exact text snapshot they were produced
// from. Offsets are only valid for that snapshot: once the text is edited,
// spans must be recomputed. Implementations must be deterministic for a
// fixed input and must be safe for concurrent use.
package recognizer

import (
	"context"
	"unicode"
)

// Label classifies a recognized span.
type Label string

const (
	// LabelMedication marks a medication or drug name.
	LabelMedication Label = "MEDICATION"

	// LabelSymptom marks a symptom descriptor ("pain", "fluttery").
	LabelSymptom Label = "SYMPTOM"

	// LabelBodyPart marks an anatomical reference.
	LabelBodyPart Label = "BODY_PART"

	// LabelDate marks a temporal expression ("last Tuesday"). Dates are not
	// tracked in session state but participate in self-correction alignment.
	LabelDate Label = "DATE"
)

// IsValid reports whether l is a recognised label.
func (l Label) IsValid() bool {
	switch l {
	case LabelMedication, LabelSymptom, LabelBodyPart, LabelDate:
		return true
	}
	return false
}

// Span is a labeled substring of a specific text snapshot.
type Span struct {
	// Start and End are byte offsets into the snapshot ([Start, End)).
	Start int
	End   int

	// Text is the exact substring text[Start:End].
	Text string

	// Canonical is the recognizer's canonical form of the matched term
	// (e.g., the lexicon spelling of a phonetically matched medication).
	// Equals a lowercased Text for exact matches.
	Canonical string

	// Label classifies the span.
	Label Label
}

// Recognizer tags entity spans in text.
//
// Recognize must return spans ordered by Start and must be deterministic for
// a fixed input. The call may be comparatively expensive (a loaded model);
// callers invoke it at most twice per utterance and never cache results
// across text snapshots.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Span, error)
}

// Token is a word token with byte offsets into the text it was produced from.
type Token struct {
	Start int
	End   int
	Text  string
}

// Tokenize splits text into word tokens, preserving byte offsets.
// A word is a maximal run of letters, digits, and internal apostrophes
// ("can't" is one token). Punctuation and whitespace are not emitted.
func Tokenize(text string) []Token {
	var tokens []Token
	start := -1
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, Token{Start: start, End: i, Text: text[start:i]})
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Start: start, End: len(text), Text: text[start:]})
	}
	return tokens
}
