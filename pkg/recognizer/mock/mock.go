// Package mock provides a test double for the recognizer package.
//
// Use Recognizer to return scripted spans per input text and to inspect
// exactly which snapshots the pipeline submitted for recognition.
//
// Example:
//
//	rec := &mock.Recognizer{
//	    Spans: map[string][]recognizer.Span{
//	        "take ibuprofen": {{Start: 5, End: 14, Text: "ibuprofen", Label: recognizer.LabelMedication}},
//	    },
//	}
package mock

import (
	"context"
	"sync"

	"github.com/sanovox/sanovox/pkg/recognizer"
)

// Recognizer is a mock implementation of recognizer.Recognizer.
type Recognizer struct {
	mu sync.Mutex

	// Spans maps input text to the spans Recognize returns for it.
	// Inputs with no entry yield no spans.
	Spans map[string][]recognizer.Span

	// Err, if non-nil, is returned as the error from every Recognize call.
	Err error

	// Calls records every text passed to Recognize, in order.
	Calls []string
}

// Recognize records the call and returns the scripted spans for text.
func (r *Recognizer) Recognize(ctx context.Context, text string) ([]recognizer.Span, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, text)
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Spans[text], nil
}

// Reset clears all recorded calls. Thread-safe.
func (r *Recognizer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = nil
}

// Ensure Recognizer implements the interface at compile time.
var _ recognizer.Recognizer = (*Recognizer)(nil)
