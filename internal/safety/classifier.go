// Package safety implements the risk-classification state machine that
// decides whether the agent may respond to a normalized utterance.
//
// Classification is computed fresh per utterance with no memory across
// turns. Every rule is evaluated — matching never short-circuits — so the
// assessment accumulates every triggered keyword and reason, and the risk
// level only ever escalates within one assessment (max-merge over the
// ordered scale), never descends.
//
// The classifier is total: it always returns an [Assessment] and never
// fails. Absence of any rule match is the LOW-risk terminal state, not an
// error.
//
// A Classifier is read-only after construction and safe for concurrent use.
package safety

import (
	"strings"
)

// RiskLevel is the ordered severity scale driving the response gate.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

// String returns the lowercase wire name of the level.
func (l RiskLevel) String() string {
	switch l {
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	default:
		return "low"
	}
}

// Assessment is the outcome of classifying one utterance.
type Assessment struct {
	// Level is the final escalated risk level.
	Level RiskLevel

	// IsSafe reports whether the agent may generate a substantive response.
	// True exactly when Level is LOW or MEDIUM.
	IsSafe bool

	// Message is the canned response for the final level. For unsafe levels
	// it replaces the substantive answer entirely.
	Message string

	// TriggeredKeywords lists every "category:keyword" tag that matched,
	// plus "combination:critical" per combination rule that fired.
	TriggeredKeywords []string

	// Reason concatenates every escalation reason with " | ", or holds the
	// no-risk sentinel when nothing triggered.
	Reason string
}

// Category is one keyword group in the risk table.
type Category struct {
	// Name tags triggered keywords ("cardiac:chest pain") and reasons.
	Name string

	// Keywords are matched as case-insensitive substrings of the utterance.
	Keywords []string

	// Escalation is the level a match in this category escalates to.
	Escalation RiskLevel
}

// Combination is a cross-category trigger: when the utterance contains at
// least one keyword from each side, risk is forced to CRITICAL regardless of
// what the category table produced.
type Combination struct {
	First  []string
	Second []string
}

// Option is a functional option for configuring a [Classifier].
type Option func(*Classifier)

// WithCategories replaces the default risk-keyword table.
func WithCategories(categories []Category) Option {
	return func(c *Classifier) {
		c.categories = categories
	}
}

// WithCombinations replaces the default combination rules.
func WithCombinations(combinations []Combination) Option {
	return func(c *Classifier) {
		c.combinations = combinations
	}
}

// WithQuestionGate controls whether keyword escalations above MEDIUM require
// the utterance to also contain an asking phrase ("should i", "is it safe").
// Disabled by default: a dangerous-symptom mention alone is enough to
// escalate, the defensive policy. Combination rules are never gated. This is
// a safety-team policy knob, not an implementation detail.
func WithQuestionGate(enabled bool) Option {
	return func(c *Classifier) {
		c.questionGate = enabled
	}
}

// Classifier scores normalized utterances against the risk tables.
type Classifier struct {
	categories   []Category
	combinations []Combination
	questionGate bool
}

// New constructs a [Classifier] with the default rule tables unless
// overridden by options.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		categories:   defaultCategories,
		combinations: defaultCombinations,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CheckSafety classifies text and returns the full assessment. The scan is
// exhaustive: every category keyword and every combination rule is tested so
// TriggeredKeywords and Reason record all matches, not just the decisive one.
func (c *Classifier) CheckSafety(text string) Assessment {
	lower := strings.ToLower(text)

	level := RiskLow
	triggered := []string{}
	var reasons []string

	asking := containsAny(lower, askingPhrases)

	for _, cat := range c.categories {
		for _, kw := range cat.Keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			triggered = append(triggered, cat.Name+":"+kw)

			escalation := cat.Escalation
			if c.questionGate && !asking && escalation > RiskMedium {
				escalation = RiskMedium
			}
			if escalation > level {
				level = escalation
			}
			switch escalation {
			case RiskCritical:
				reasons = append(reasons, "Critical "+cat.Name+" indicator detected")
			case RiskHigh:
				reasons = append(reasons, "High-risk "+cat.Name+" query")
			}
		}
	}

	for _, combo := range c.combinations {
		if containsAny(lower, combo.First) && containsAny(lower, combo.Second) {
			level = RiskCritical
			triggered = append(triggered, "combination:critical")
			reasons = append(reasons, "Critical combination detected")
		}
	}

	reason := noRiskReason
	if len(reasons) > 0 {
		reason = strings.Join(reasons, " | ")
	}

	return Assessment{
		Level:             level,
		IsSafe:            level <= RiskMedium,
		Message:           messageFor(level),
		TriggeredKeywords: triggered,
		Reason:            reason,
	}
}

// containsAny reports whether lower contains any of the given substrings.
func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
