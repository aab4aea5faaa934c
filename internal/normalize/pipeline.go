// Package normalize implements the utterance-normalization pipeline that
// turns raw speech-to-text output into text clean enough for safety
// classification and entity tracking.
//
// Raw transcripts from a patient-facing voice agent carry three kinds of
// noise: bracketed transcription markers ("[inaudible]"), speech
// disfluencies ("um", "kind of"), and self-corrections, where the speaker
// restates a value they just said ("Glucophage... no, wait, Ibuprofen").
// The [Cleaner] removes the first two and resolves the third using entity
// alignment from a [recognizer.Recognizer], keeping only the corrected value
// while recording every substitution for audit and state tracking.
//
// Stage order is load-bearing:
//
//  1. Noise markers are stripped unconditionally.
//  2. Disfluencies are removed — before correction detection, because a
//     filler between a correction marker and its target breaks alignment.
//  3. Self-corrections are resolved against a single entity-recognition pass.
//  4. Whitespace and punctuation residue is collapsed.
//  5. Entities are re-extracted from the final text (corrections may have
//     changed which terms are present) and bucketed for state aggregation.
//
// Every stage degrades to "no change" on non-match; the pipeline never fails
// on content. The only error source is the recognizer collaborator.
//
// A Cleaner is read-only after construction and safe for concurrent use.
package normalize

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sanovox/sanovox/pkg/recognizer"
)

// Correction captures a single resolved self-correction.
type Correction struct {
	// Before is the superseded text as it appeared in the utterance.
	Before string

	// After is the replacement the speaker corrected to.
	After string

	// Method describes how the superseded item was located.
	// Well-known values:
	//   "entity" — a same-label entity span preceding the marker.
	//   "token"  — nearest-preceding-token fallback for untagged values.
	Method string
}

// Entities buckets the recognized spans of the final cleaned text by label.
// Values are canonical lexicon forms, in order of appearance, with duplicates
// preserved (deduplication is session state's job).
type Entities struct {
	Medications []string
	Symptoms    []string
	BodyParts   []string
}

// Result is the output of one [Pipeline.Clean] call. It is produced once per
// utterance and not mutated afterwards.
type Result struct {
	// CleanedText is the fully normalized utterance.
	CleanedText string

	// Corrections lists resolved self-corrections in the order their targets
	// appear in the text. Empty (non-nil) when none were found.
	Corrections []Correction

	// DisfluenciesRemoved lists the distinct disfluency vocabulary entries
	// that matched at least once (not occurrence counts).
	DisfluenciesRemoved []string

	// NoiseRemoved reports whether any bracketed noise marker was stripped.
	NoiseRemoved bool

	// Entities holds the spans recognized in CleanedText, bucketed by label.
	Entities Entities
}

// Pipeline normalizes one raw utterance.
//
// Implementations must be safe for concurrent use.
type Pipeline interface {
	// Clean processes raw speech-to-text output and returns a non-nil
	// *Result on success. Empty or blank input yields an empty Result, not
	// an error. The recognizer collaborator is invoked at most twice.
	Clean(ctx context.Context, raw string) (*Result, error)
}

// Option is a functional option for configuring a [Cleaner].
type Option func(*Cleaner)

// WithDisfluencies replaces the default disfluency vocabulary. Entries are
// matched case-insensitively as whole words or phrases.
func WithDisfluencies(vocab []string) Option {
	return func(c *Cleaner) {
		c.disfluencies = vocab
	}
}

// Cleaner is the normalization implementation of [Pipeline].
type Cleaner struct {
	rec          recognizer.Recognizer
	disfluencies []string
	disflRules   []disfluencyRule
}

// Compile-time assertion that Cleaner satisfies Pipeline.
var _ Pipeline = (*Cleaner)(nil)

// New constructs a [Cleaner] around the given recognizer.
func New(rec recognizer.Recognizer, opts ...Option) *Cleaner {
	c := &Cleaner{
		rec:          rec,
		disfluencies: defaultDisfluencies,
	}
	for _, o := range opts {
		o(c)
	}
	c.disflRules = compileDisfluencyRules(c.disfluencies)
	return c
}

// Clean implements [Pipeline.Clean].
func (c *Cleaner) Clean(ctx context.Context, raw string) (*Result, error) {
	res := &Result{
		Corrections:         []Correction{},
		DisfluenciesRemoved: []string{},
		Entities: Entities{
			Medications: []string{},
			Symptoms:    []string{},
			BodyParts:   []string{},
		},
	}

	if strings.TrimSpace(raw) == "" {
		return res, nil
	}

	text, noiseRemoved := stripNoise(raw)
	res.NoiseRemoved = noiseRemoved

	text, removed := c.stripDisfluencies(text)
	res.DisfluenciesRemoved = removed

	text, corrections, err := c.resolveCorrections(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("normalize: resolve corrections: %w", err)
	}
	res.Corrections = corrections

	text = normalizeWhitespace(text)
	res.CleanedText = text

	entities, err := c.projectEntities(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("normalize: project entities: %w", err)
	}
	res.Entities = entities

	return res, nil
}

// noisePattern matches the closed set of bracketed transcription markers.
var noisePattern = regexp.MustCompile(`\[(?:noise|inaudible|unclear|cough|pause)\]`)

// stripNoise removes bracketed noise markers unconditionally and reports
// whether any were present.
func stripNoise(text string) (string, bool) {
	if !noisePattern.MatchString(text) {
		return text, false
	}
	return noisePattern.ReplaceAllString(text, ""), true
}
