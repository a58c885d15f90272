package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// TestExcerpt covers inputs shorter than, equal to, and longer than the
// bound, plus the non-positive fallback to DefaultMaxStringLength.
func TestExcerpt(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{name: "shorter than bound", input: "hello", maxRunes: 10, want: "hello"},
		{name: "exactly at bound", input: "hello", maxRunes: 5, want: "hello"},
		{name: "longer than bound", input: "hello world", maxRunes: 5, want: "hello"},
		{name: "multibyte runes kept whole", input: "₹₹₹₹", maxRunes: 2, want: "₹₹"},
		{name: "empty input", input: "", maxRunes: 3, want: ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := Excerpt(testCase.input, testCase.maxRunes)
			if got != testCase.want {
				t.Errorf("Excerpt(%q, %d) = %q, want %q", testCase.input, testCase.maxRunes, got, testCase.want)
			}
		})
	}
}

// TestExcerpt_DefaultBound verifies that a zero bound uses DefaultMaxStringLength
// and that the result never exceeds it.
func TestExcerpt_DefaultBound(t *testing.T) {
	input := strings.Repeat("a", DefaultMaxStringLength*2)
	got := Excerpt(input, 0)

	if n := utf8.RuneCountInString(got); n != DefaultMaxStringLength {
		t.Errorf("Excerpt() length = %d, want %d", n, DefaultMaxStringLength)
	}
}

// TestTruncateString verifies the log-oriented truncation keeps short strings
// intact and annotates long ones with the original length.
func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("TruncateString() = %q, want %q", got, "short")
	}

	got := TruncateString("abcdefghij", 4)
	if !strings.HasPrefix(got, "abcd") {
		t.Errorf("TruncateString() should start with first 4 chars, got: %q", got)
	}
	if !strings.Contains(got, "(truncated, total: 10 chars)") {
		t.Errorf("TruncateString() should record the original length, got: %q", got)
	}
}
