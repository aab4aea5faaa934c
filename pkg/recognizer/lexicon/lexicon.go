// Package lexicon implements [recognizer.Recognizer] backed by a fixed
// clinical vocabulary with an optional phonetic matching stage.
//
// The recognizer matches in two passes per token position:
//
//  1. Exact lexicon lookup: n-gram windows (longest first, up to the longest
//     phrase in the lexicon) are compared case-insensitively against the
//     vocabulary, so multi-word terms take precedence over single-word ones.
//
//  2. Phonetic fallback (optional): single tokens that miss the lexicon are
//     tested against the medication vocabulary using Double Metaphone code
//     overlap ranked by Jaro-Winkler similarity, with a pure Jaro-Winkler
//     fallback at a stricter threshold when no phonetic candidate exists.
//     This recovers misheard drug names ("propanol" → "propranolol") that
//     speech-to-text output routinely garbles.
//
// The built-in vocabulary is illustrative, not clinical-grade; production
// deployments extend it with domain term tables via [WithTerms].
//
// A Recognizer is read-only after construction and safe for concurrent use.
package lexicon

import (
	"context"
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/sanovox/sanovox/pkg/recognizer"
)

const (
	defaultPhoneticThreshold = 0.70
	defaultFuzzyThreshold    = 0.85

	// minPhoneticLen is the minimum token length considered for phonetic
	// matching. Shorter tokens produce too many false candidates.
	minPhoneticLen = 4
)

// Base vocabulary. Medication names are common generics; symptoms and body
// parts are the lay terms a patient-facing agent hears most.
var (
	baseMedications = []string{
		"ibuprofen", "paracetamol", "aspirin", "metformin", "lisinopril",
		"amlodipine", "omeprazole", "simvastatin", "atorvastatin",
		"levothyroxine", "albuterol", "metoprolol", "losartan",
		"gabapentin", "hydrochlorothiazide", "sertraline", "prednisone",
		"amoxicillin", "warfarin", "insulin", "glucophage", "propranolol",
	}

	baseSymptoms = []string{
		"pain", "hurts", "ache", "aches", "sore", "swollen", "fluttery",
		"dizzy", "nausea", "fever", "cough", "tired", "shakes",
	}

	baseBodyParts = []string{
		"knee", "heart", "head", "back", "chest", "stomach", "neck",
		"arm", "leg", "shoulder", "ankle", "wrist",
	}
)

// Option is a functional option for configuring a [Recognizer].
type Option func(*Recognizer)

// WithTerms adds domain override terms to the lexicon. Entries override the
// base vocabulary when the same term appears in both. Keys are matched
// case-insensitively and may contain multiple words.
func WithTerms(terms map[string]recognizer.Label) Option {
	return func(r *Recognizer) {
		for term, label := range terms {
			r.extra[term] = label
		}
	}
}

// WithPhoneticMatching enables or disables the phonetic medication-matching
// stage. Enabled by default.
func WithPhoneticMatching(enabled bool) Option {
	return func(r *Recognizer) {
		r.phonetic = enabled
	}
}

// WithPhoneticThreshold sets the minimum Jaro-Winkler score required for a
// phonetically-matched medication to be accepted. Default: 0.70.
func WithPhoneticThreshold(threshold float64) Option {
	return func(r *Recognizer) {
		r.phoneticThreshold = threshold
	}
}

// WithFuzzyThreshold sets the minimum Jaro-Winkler score required when no
// phonetic candidate is found and the matcher falls back to pure string
// similarity. Default: 0.85.
func WithFuzzyThreshold(threshold float64) Option {
	return func(r *Recognizer) {
		r.fuzzyThreshold = threshold
	}
}

// entry is a prepared lexicon term.
type entry struct {
	canonical string
	label     recognizer.Label
}

// medCandidate is a medication term prepared for phonetic comparison.
type medCandidate struct {
	canonical string
	codes     map[string]struct{}
}

// Compile-time assertion that Recognizer satisfies the interface.
var _ recognizer.Recognizer = (*Recognizer)(nil)

// Recognizer is a deterministic lexicon-backed entity recognizer.
type Recognizer struct {
	extra map[string]recognizer.Label // raw override table, consumed in New

	entries  map[string]entry
	maxWords int

	phonetic          bool
	phoneticThreshold float64
	fuzzyThreshold    float64
	medCandidates     []medCandidate
}

// New constructs a [Recognizer] from the base vocabulary plus any override
// terms supplied via [WithTerms]. Returns an error when an override entry is
// empty or carries an unrecognised label; this is a startup failure for the
// whole pipeline, not a per-utterance condition.
func New(opts ...Option) (*Recognizer, error) {
	r := &Recognizer{
		extra:             make(map[string]recognizer.Label),
		entries:           make(map[string]entry),
		phonetic:          true,
		phoneticThreshold: defaultPhoneticThreshold,
		fuzzyThreshold:    defaultFuzzyThreshold,
	}
	for _, o := range opts {
		o(r)
	}

	for _, term := range baseMedications {
		r.addEntry(term, recognizer.LabelMedication)
	}
	for _, term := range baseSymptoms {
		r.addEntry(term, recognizer.LabelSymptom)
	}
	for _, term := range baseBodyParts {
		r.addEntry(term, recognizer.LabelBodyPart)
	}

	// Overrides go last so they win over the base vocabulary.
	for term, label := range r.extra {
		key := strings.ToLower(strings.TrimSpace(term))
		if key == "" {
			return nil, fmt.Errorf("lexicon: override term must not be empty")
		}
		if !label.IsValid() {
			return nil, fmt.Errorf("lexicon: override term %q has invalid label %q", term, label)
		}
		r.addEntry(key, label)
	}
	r.extra = nil

	// Prepare phonetic codes for every medication in the final lexicon.
	for key, e := range r.entries {
		if e.label != recognizer.LabelMedication || strings.ContainsRune(key, ' ') {
			continue
		}
		r.medCandidates = append(r.medCandidates, medCandidate{
			canonical: e.canonical,
			codes:     metaphoneCodes(key),
		})
	}

	return r, nil
}

// addEntry registers term under its lowercase key and tracks the longest
// phrase length seen.
func (r *Recognizer) addEntry(term string, label recognizer.Label) {
	key := strings.ToLower(strings.TrimSpace(term))
	r.entries[key] = entry{canonical: key, label: label}
	if n := len(strings.Fields(key)); n > r.maxWords {
		r.maxWords = n
	}
}

// Recognize implements [recognizer.Recognizer]. Spans are returned ordered
// by start offset. The error return is reserved for context cancellation;
// recognition itself cannot fail.
func (r *Recognizer) Recognize(ctx context.Context, text string) ([]recognizer.Span, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}

	tokens := recognizer.Tokenize(text)
	spans := []recognizer.Span{}

	i := 0
	for i < len(tokens) {
		maxN := r.maxWords
		if i+maxN > len(tokens) {
			maxN = len(tokens) - i
		}

		matched := false
		for n := maxN; n >= 1; n-- {
			key := windowKey(tokens[i : i+n])
			e, ok := r.entries[key]
			if !ok {
				continue
			}
			spans = append(spans, recognizer.Span{
				Start:     tokens[i].Start,
				End:       tokens[i+n-1].End,
				Text:      text[tokens[i].Start:tokens[i+n-1].End],
				Canonical: e.canonical,
				Label:     e.label,
			})
			i += n
			matched = true
			break
		}
		if matched {
			continue
		}

		if r.phonetic {
			if canonical, ok := r.matchMedication(tokens[i].Text); ok {
				spans = append(spans, recognizer.Span{
					Start:     tokens[i].Start,
					End:       tokens[i].End,
					Text:      tokens[i].Text,
					Canonical: canonical,
					Label:     recognizer.LabelMedication,
				})
			}
		}
		i++
	}

	return spans, nil
}

// matchMedication resolves a single out-of-lexicon token to a medication
// name by pronunciation similarity. Phonetic candidates (Double Metaphone
// code overlap) are ranked by Jaro-Winkler and accepted above the phonetic
// threshold; when no candidate overlaps phonetically, pure Jaro-Winkler is
// tested against the stricter fuzzy threshold.
func (r *Recognizer) matchMedication(word string) (canonical string, ok bool) {
	wordLower := strings.ToLower(word)
	if len(wordLower) < minPhoneticLen {
		return "", false
	}
	wordCodes := metaphoneCodes(wordLower)

	var (
		best         string
		bestScore    float64
		bestPhonetic bool
	)

	for _, cand := range r.medCandidates {
		score := matchr.JaroWinkler(wordLower, cand.canonical, false)

		if codesOverlap(wordCodes, cand.codes) {
			if score >= r.phoneticThreshold && (!bestPhonetic || score > bestScore) {
				best, bestScore, bestPhonetic = cand.canonical, score, true
			}
		} else if !bestPhonetic {
			if score >= r.fuzzyThreshold && score > bestScore {
				best, bestScore = cand.canonical, score
			}
		}
	}

	return best, best != ""
}

// windowKey joins a token window into a lowercase lookup key.
func windowKey(tokens []recognizer.Token) string {
	if len(tokens) == 1 {
		return strings.ToLower(tokens[0].Text)
	}
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = strings.ToLower(t.Text)
	}
	return strings.Join(parts, " ")
}

// metaphoneCodes returns the set of non-empty Double Metaphone codes for word.
func metaphoneCodes(word string) map[string]struct{} {
	codes := make(map[string]struct{}, 2)
	p, s := matchr.DoubleMetaphone(word)
	if p != "" {
		codes[p] = struct{}{}
	}
	if s != "" {
		codes[s] = struct{}{}
	}
	return codes
}

// codesOverlap reports whether the two code sets share at least one code.
func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}
