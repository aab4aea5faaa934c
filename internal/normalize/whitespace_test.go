package normalize

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses runs", "my   knee    hurts", "my knee hurts"},
		{"space before punctuation", "my knee hurts , a lot !", "my knee hurts, a lot!"},
		{"repeated commas", "knee,, hurts", "knee, hurts"},
		{"repeated periods", "it hurts..", "it hurts."},
		{"trims", "  my knee hurts  ", "my knee hurts"},
		{"tabs and newlines", "my\tknee\nhurts", "my knee hurts"},
		{"already clean", "my knee hurts.", "my knee hurts."},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeWhitespace(tc.input); got != tc.want {
				t.Errorf("normalizeWhitespace(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeWhitespace_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"my   knee ,  hurts ..  a lot  !",
		" I take  Ibuprofen for it. ",
		"um,,  yeah ...",
	}
	for _, input := range inputs {
		once := normalizeWhitespace(input)
		twice := normalizeWhitespace(once)
		if once != twice {
			t.Errorf("normalizeWhitespace is not idempotent for %q: once=%q twice=%q", input, once, twice)
		}
	}
}
