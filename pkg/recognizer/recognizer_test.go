package recognizer_test

import (
	"testing"

	"github.com/sanovox/sanovox/pkg/recognizer"
)

func TestTokenize_Offsets(t *testing.T) {
	t.Parallel()

	text := "I take Glucophage, no wait, Ibuprofen for it."
	tokens := recognizer.Tokenize(text)

	want := []recognizer.Token{
		{Start: 0, End: 1, Text: "I"},
		{Start: 2, End: 6, Text: "take"},
		{Start: 7, End: 17, Text: "Glucophage"},
		{Start: 19, End: 21, Text: "no"},
		{Start: 22, End: 26, Text: "wait"},
		{Start: 28, End: 37, Text: "Ibuprofen"},
		{Start: 38, End: 41, Text: "for"},
		{Start: 42, End: 44, Text: "it"},
	}
	if len(tokens) != len(want) {
		t.Fatalf("Tokenize returned %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i, tok := range tokens {
		if tok != want[i] {
			t.Errorf("token[%d] = %+v, want %+v", i, tok, want[i])
		}
		if text[tok.Start:tok.End] != tok.Text {
			t.Errorf("token[%d] offsets do not match text: %q vs %q", i, text[tok.Start:tok.End], tok.Text)
		}
	}
}

func TestTokenize_Apostrophes(t *testing.T) {
	t.Parallel()

	tokens := recognizer.Tokenize("I can't breathe")
	if len(tokens) != 3 {
		t.Fatalf("Tokenize returned %d tokens, want 3: %v", len(tokens), tokens)
	}
	if tokens[1].Text != "can't" {
		t.Errorf("token[1] = %q, want %q", tokens[1].Text, "can't")
	}
}

func TestTokenize_Empty(t *testing.T) {
	t.Parallel()

	if tokens := recognizer.Tokenize(""); len(tokens) != 0 {
		t.Errorf("Tokenize(\"\") = %v, want no tokens", tokens)
	}
	if tokens := recognizer.Tokenize(" ,. !"); len(tokens) != 0 {
		t.Errorf("Tokenize(punctuation) = %v, want no tokens", tokens)
	}
}

func TestLabel_IsValid(t *testing.T) {
	t.Parallel()

	for _, l := range []recognizer.Label{
		recognizer.LabelMedication, recognizer.LabelSymptom,
		recognizer.LabelBodyPart, recognizer.LabelDate,
	} {
		if !l.IsValid() {
			t.Errorf("Label(%q).IsValid() = false, want true", l)
		}
	}
	if recognizer.Label("PERSON").IsValid() {
		t.Error(`Label("PERSON").IsValid() = true, want false`)
	}
	if recognizer.Label("").IsValid() {
		t.Error(`Label("").IsValid() = true, want false`)
	}
}
