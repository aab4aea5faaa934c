// Package orchestrator coordinates one conversation turn: normalization,
// risk classification, and session-state aggregation.
//
// An [Agent] owns exactly one [SessionState] per conversation and processes
// utterances under a single-writer discipline — one utterance runs to
// completion before the next touches the same session. Independent sessions
// use independent agents and share nothing.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sanovox/sanovox/internal/normalize"
	"github.com/sanovox/sanovox/internal/observe"
	"github.com/sanovox/sanovox/internal/safety"
)

// TurnResult is the complete outcome of processing one utterance.
type TurnResult struct {
	// CleanedText is the normalized utterance.
	CleanedText string

	// Clean carries the full normalization result (corrections,
	// disfluencies, noise flag, entities).
	Clean *normalize.Result

	// Safety is the risk assessment of the cleaned text.
	Safety safety.Assessment

	// State is the session state after merging this utterance's entities.
	State StateSnapshot

	// ShouldRespond reports whether the agent may generate a substantive
	// response. Always equals Safety.IsSafe.
	ShouldRespond bool
}

// Option configures an [Agent] during construction.
type Option func(*Agent)

// WithMetrics attaches a metrics recorder. When nil (the default), no
// metrics are recorded.
func WithMetrics(m *observe.Metrics) Option {
	return func(a *Agent) {
		a.metrics = m
	}
}

// WithSessionID overrides the generated conversation session ID.
func WithSessionID(id string) Option {
	return func(a *Agent) {
		a.sessionID = id
	}
}

// Agent is the per-conversation turn orchestrator.
//
// Process is safe for concurrent use; concurrent calls on the same Agent are
// serialized so each utterance observes a consistent session state.
type Agent struct {
	sessionID string
	cleaner   normalize.Pipeline
	safety    *safety.Classifier
	metrics   *observe.Metrics

	mu    sync.Mutex
	state *SessionState
}

// New constructs an [Agent] around a normalization pipeline and a safety
// classifier, with a fresh session state and a generated session ID.
func New(cleaner normalize.Pipeline, classifier *safety.Classifier, opts ...Option) *Agent {
	a := &Agent{
		sessionID: uuid.NewString(),
		cleaner:   cleaner,
		safety:    classifier,
		state:     NewSessionState(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// SessionID returns the conversation session identifier.
func (a *Agent) SessionID() string {
	return a.sessionID
}

// Process runs one utterance through the pipeline: clean, classify, merge
// entities into session state, advance the turn counter.
//
// The returned TurnResult is complete even for unsafe utterances — the
// caller consults ShouldRespond to decide whether to answer or to emit
// Safety.Message verbatim instead.
func (a *Agent) Process(ctx context.Context, raw string) (*TurnResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()

	clean, err := a.cleaner.Clean(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: clean utterance: %w", err)
	}

	assessment := a.safety.CheckSafety(clean.CleanedText)

	a.state.MergeEntities(clean.Entities)

	if a.metrics != nil {
		a.metrics.RecordTurn(ctx, assessment.Level.String(), assessment.IsSafe, time.Since(start).Seconds())
		for _, c := range clean.Corrections {
			a.metrics.RecordCorrection(ctx, c.Method)
		}
		a.metrics.RecordDisfluencies(ctx, len(clean.DisfluenciesRemoved))
	}

	if !assessment.IsSafe {
		slog.Warn("utterance blocked by safety gate",
			"session_id", a.sessionID,
			"risk_level", assessment.Level.String(),
			"reason", assessment.Reason,
		)
	}

	return &TurnResult{
		CleanedText:   clean.CleanedText,
		Clean:         clean,
		Safety:        assessment,
		State:         a.state.Snapshot(),
		ShouldRespond: assessment.IsSafe,
	}, nil
}

// State returns a snapshot of the current session state.
func (a *Agent) State() StateSnapshot {
	return a.state.Snapshot()
}

// ResetState clears the session state for a new conversation while keeping
// the same pipeline and classifier.
func (a *Agent) ResetState() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Reset()
}
