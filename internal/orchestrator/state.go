package orchestrator

import (
	"sort"
	"sync"

	"github.com/sanovox/sanovox/internal/normalize"
)

// SessionState tracks what a patient has mentioned across the turns of one
// conversation. Entries use set semantics — mentioning a medication twice
// stores it once. The state lives for the duration of a conversation and is
// explicitly resettable.
//
// The state is owned by its [Agent]; the agent mutates it one utterance at a
// time. Snapshot and Reset are additionally safe to call concurrently.
type SessionState struct {
	mu          sync.Mutex
	symptoms    map[string]struct{}
	medications map[string]struct{}
	conditions  map[string]struct{}
	turnCount   int
}

// NewSessionState returns an empty, ready-to-use session state.
func NewSessionState() *SessionState {
	return &SessionState{
		symptoms:    make(map[string]struct{}),
		medications: make(map[string]struct{}),
		conditions:  make(map[string]struct{}),
	}
}

// MergeEntities folds one utterance's entities into the state and advances
// the turn counter. Body-part mentions are recorded as "<part> issue"
// symptoms: a named body part without a tagged symptom still signals a
// complaint worth tracking.
func (s *SessionState) MergeEntities(entities normalize.Entities) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, med := range entities.Medications {
		if med != "" {
			s.medications[med] = struct{}{}
		}
	}
	for _, symptom := range entities.Symptoms {
		if symptom != "" {
			s.symptoms[symptom] = struct{}{}
		}
	}
	for _, part := range entities.BodyParts {
		if part != "" {
			s.symptoms[part+" issue"] = struct{}{}
		}
	}
	s.turnCount++
}

// AddCondition records a diagnosed condition. Conditions are not extracted
// automatically; callers add them from confirmed context.
func (s *SessionState) AddCondition(condition string) {
	if condition == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conditions[condition] = struct{}{}
}

// Reset clears all accumulated entities and the turn counter.
func (s *SessionState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symptoms = make(map[string]struct{})
	s.medications = make(map[string]struct{})
	s.conditions = make(map[string]struct{})
	s.turnCount = 0
}

// StateSnapshot is a point-in-time copy of a [SessionState] with sorted,
// independent slices. Safe to retain and serialize.
type StateSnapshot struct {
	Symptoms    []string
	Medications []string
	Conditions  []string
	TurnCount   int
}

// Snapshot returns a sorted copy of the current state.
func (s *SessionState) Snapshot() StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StateSnapshot{
		Symptoms:    sortedKeys(s.symptoms),
		Medications: sortedKeys(s.medications),
		Conditions:  sortedKeys(s.conditions),
		TurnCount:   s.turnCount,
	}
}

// sortedKeys returns the keys of set in ascending order.
func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
