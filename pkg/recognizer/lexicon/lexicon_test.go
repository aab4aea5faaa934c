package lexicon_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/sanovox/sanovox/pkg/recognizer"
	"github.com/sanovox/sanovox/pkg/recognizer/lexicon"
)

func mustNew(t *testing.T, opts ...lexicon.Option) *lexicon.Recognizer {
	t.Helper()
	rec, err := lexicon.New(opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return rec
}

// --- Exact matching ---

func TestRecognize_ExactTerms(t *testing.T) {
	t.Parallel()

	rec := mustNew(t)
	text := "My knee hurts and I take Ibuprofen"
	spans, err := rec.Recognize(context.Background(), text)
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}

	want := []recognizer.Span{
		{Start: 3, End: 7, Text: "knee", Canonical: "knee", Label: recognizer.LabelBodyPart},
		{Start: 8, End: 13, Text: "hurts", Canonical: "hurts", Label: recognizer.LabelSymptom},
		{Start: 25, End: 34, Text: "Ibuprofen", Canonical: "ibuprofen", Label: recognizer.LabelMedication},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("Recognize(%q) =\n  %+v\nwant\n  %+v", text, spans, want)
	}
}

func TestRecognize_NoMatches(t *testing.T) {
	t.Parallel()

	rec := mustNew(t)
	spans, err := rec.Recognize(context.Background(), "hello there friend")
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if len(spans) != 0 {
		t.Errorf("Recognize returned %+v, want no spans", spans)
	}
}

// --- Override terms ---

func TestRecognize_OverrideTerms(t *testing.T) {
	t.Parallel()

	rec := mustNew(t, lexicon.WithTerms(map[string]recognizer.Label{
		"chest pain": recognizer.LabelSymptom,
	}))
	text := "I have chest pain today"
	spans, err := rec.Recognize(context.Background(), text)
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}

	// The two-word override must win over the single-word base entries
	// ("chest" BODY_PART, "pain" SYMPTOM) at the same position.
	want := []recognizer.Span{
		{Start: 7, End: 17, Text: "chest pain", Canonical: "chest pain", Label: recognizer.LabelSymptom},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("Recognize(%q) =\n  %+v\nwant\n  %+v", text, spans, want)
	}
}

func TestNew_InvalidOverrideLabel(t *testing.T) {
	t.Parallel()

	_, err := lexicon.New(lexicon.WithTerms(map[string]recognizer.Label{
		"foo": recognizer.Label("BOGUS"),
	}))
	if err == nil {
		t.Fatal("New accepted an invalid override label, want error")
	}
}

func TestNew_EmptyOverrideTerm(t *testing.T) {
	t.Parallel()

	_, err := lexicon.New(lexicon.WithTerms(map[string]recognizer.Label{
		"  ": recognizer.LabelMedication,
	}))
	if err == nil {
		t.Fatal("New accepted an empty override term, want error")
	}
}

// --- Phonetic matching ---

func TestRecognize_PhoneticMedication(t *testing.T) {
	t.Parallel()

	rec := mustNew(t)
	text := "I take propanol for my blood pressure"
	spans, err := rec.Recognize(context.Background(), text)
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}

	if len(spans) != 1 {
		t.Fatalf("Recognize(%q) returned %d spans, want 1: %+v", text, len(spans), spans)
	}
	got := spans[0]
	if got.Label != recognizer.LabelMedication {
		t.Errorf("Label = %q, want MEDICATION", got.Label)
	}
	if got.Canonical != "propranolol" {
		t.Errorf("Canonical = %q, want %q", got.Canonical, "propranolol")
	}
	if got.Text != "propanol" || got.Start != 7 || got.End != 15 {
		t.Errorf("span = %+v, want propanol at [7,15)", got)
	}
}

func TestRecognize_PhoneticDisabled(t *testing.T) {
	t.Parallel()

	rec := mustNew(t, lexicon.WithPhoneticMatching(false))
	spans, err := rec.Recognize(context.Background(), "I take propanol daily")
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if len(spans) != 0 {
		t.Errorf("Recognize returned %+v, want no spans with phonetic matching off", spans)
	}
}

func TestRecognize_Deterministic(t *testing.T) {
	t.Parallel()

	rec := mustNew(t)
	text := "my heart feels fluttery and I take propanol"

	first, err := rec.Recognize(context.Background(), text)
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := rec.Recognize(context.Background(), text)
		if err != nil {
			t.Fatalf("Recognize returned error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Recognize is not deterministic: run %d returned\n  %+v\nfirst run returned\n  %+v", i, again, first)
		}
	}
}

func TestRecognize_CancelledContext(t *testing.T) {
	t.Parallel()

	rec := mustNew(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := rec.Recognize(ctx, "knee"); err == nil {
		t.Error("Recognize with cancelled context returned nil error")
	}
}
