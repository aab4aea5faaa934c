package normalize

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sanovox/sanovox/pkg/recognizer"
)

// markerPattern matches correction-marker keywords as whole words, together
// with any trailing comma/whitespace, with leftmost-first semantics. "i mean"
// precedes the single-word alternatives so the phrase wins at its position.
var markerPattern = regexp.MustCompile(`(?i)\b(i mean|no|wait|sorry|actually|or|rather)\b[,\s]*`)

// markerWords is the marker vocabulary as a set, for recognizer
// false-positive checks (a recognizer occasionally tags a marker word itself).
var markerWords = map[string]struct{}{
	"no": {}, "wait": {}, "sorry": {}, "actually": {},
	"i mean": {}, "or": {}, "rather": {},
}

// ellipsisPattern matches runs of two or more periods. Ellipses in a
// transcript represent pauses, not sentence boundaries, and must not split
// a correction from its target.
var ellipsisPattern = regexp.MustCompile(`\.{2,}`)

// replacement is one pending edit against a fixed text snapshot. It removes
// [insertAt, removeThrough) — the superseded item, the marker, and the
// corrected entity — and inserts the corrected entity's text alone.
type replacement struct {
	insertAt      int
	removeThrough int
	before        string
	after         string
	method        string
}

// resolveCorrections detects self-corrections in text and rewrites it to
// keep only the corrected values.
//
// The algorithm runs entity recognition once on the (pause-normalized) text,
// scans left-to-right for correction markers, and for each marker pairs the
// first entity after it with the most recent same-label entity before it —
// falling back to the nearest preceding word token when no labeled
// predecessor exists. Edits are registered keyed by the superseded item's
// start offset and applied rightmost-first after the scan completes, so every
// registered offset stays valid against the original snapshot and a later
// marker re-targeting the same item overwrites the earlier determination.
func (c *Cleaner) resolveCorrections(ctx context.Context, text string) (string, []Correction, error) {
	// Ellipses and stray dashes are pause artifacts; removing dashes also
	// rejoins spelled-out words ("pro-pran-o-lol").
	text = ellipsisPattern.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "-", "")

	spans, err := c.rec.Recognize(ctx, text)
	if err != nil {
		return "", nil, err
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	var tokens []recognizer.Token // lazily built for the fallback path

	replacements := make(map[int]replacement)
	var order []int // insertAt offsets in first-registration order

	for _, m := range markerPattern.FindAllStringIndex(text, -1) {
		markerStart, markerEnd := m[0], m[1]

		after := firstSpanAtOrAfter(spans, markerEnd)
		if after == nil {
			// Marker is conversational noise, not an entity-level correction.
			continue
		}
		if _, isMarker := markerWords[strings.ToLower(after.Text)]; isMarker {
			continue
		}

		insertAt, before, method := -1, "", "entity"
		if prev := lastSpanBefore(spans, markerStart, after.Label); prev != nil {
			insertAt, before = prev.Start, prev.Text
		} else {
			// No same-label predecessor: correct over the nearest preceding
			// word token instead (numbers, dates, anything untagged).
			if tokens == nil {
				tokens = recognizer.Tokenize(text)
			}
			if tok := lastTokenBefore(tokens, markerStart); tok != nil {
				insertAt, before, method = tok.Start, tok.Text, "token"
			}
		}
		if insertAt < 0 {
			continue
		}

		if _, seen := replacements[insertAt]; !seen {
			order = append(order, insertAt)
		}
		replacements[insertAt] = replacement{
			insertAt:      insertAt,
			removeThrough: after.End,
			before:        before,
			after:         after.Text,
			method:        method,
		}
	}

	corrections := make([]Correction, 0, len(order))
	for _, at := range order {
		r := replacements[at]
		corrections = append(corrections, Correction{Before: r.before, After: r.after, Method: r.method})
	}

	// Merge overlapping edits left-to-right: a chained correction
	// ("X, no Y, wait, Z") produces a later edit whose region starts inside
	// an earlier one, and the later determination supersedes the overlap.
	offsets := make([]int, 0, len(replacements))
	for at := range replacements {
		offsets = append(offsets, at)
	}
	sort.Ints(offsets)

	var merged []replacement
	for _, at := range offsets {
		r := replacements[at]
		if n := len(merged); n > 0 && r.insertAt < merged[n-1].removeThrough {
			prev := &merged[n-1]
			if r.removeThrough > prev.removeThrough {
				prev.removeThrough = r.removeThrough
			}
			prev.after = r.after
			continue
		}
		merged = append(merged, r)
	}

	// Apply rightmost-first so earlier offsets remain valid.
	for i := len(merged) - 1; i >= 0; i-- {
		r := merged[i]
		text = text[:r.insertAt] + r.after + text[r.removeThrough:]
	}

	return text, corrections, nil
}

// firstSpanAtOrAfter returns the first span starting at or after offset,
// or nil when none exists.
func firstSpanAtOrAfter(spans []recognizer.Span, offset int) *recognizer.Span {
	for i := range spans {
		if spans[i].Start >= offset {
			return &spans[i]
		}
	}
	return nil
}

// lastSpanBefore returns the most recent span with the given label ending at
// or before offset, or nil when none exists.
func lastSpanBefore(spans []recognizer.Span, offset int, label recognizer.Label) *recognizer.Span {
	for i := len(spans) - 1; i >= 0; i-- {
		if spans[i].End <= offset && spans[i].Label == label {
			return &spans[i]
		}
	}
	return nil
}

// lastTokenBefore returns the nearest token starting before offset that is
// longer than one rune and is not itself a correction marker, or nil when
// none qualifies. Single-rune tokens are skipped: they are articles, stray
// letters, or punctuation debris, never a value worth correcting. Marker
// tokens are skipped because a marker introduces a correction and can never
// be its target ("..., no wait, ..." must not correct over the "no").
func lastTokenBefore(tokens []recognizer.Token, offset int) *recognizer.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := &tokens[i]
		if tok.Start >= offset || utf8.RuneCountInString(tok.Text) <= 1 {
			continue
		}
		if _, isMarker := markerWords[strings.ToLower(tok.Text)]; isMarker {
			continue
		}
		return tok
	}
	return nil
}
