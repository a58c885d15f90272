package utils

import (
	"fmt"
	"unicode/utf8"
)

const (
	// DefaultMaxStringLength is the default maximum length for truncated strings
	DefaultMaxStringLength = 500
)

// Excerpt returns the first maxRunes characters of s. Unlike [TruncateString]
// it adds no suffix, so the result never exceeds maxRunes characters and can
// be stored verbatim in error records. A non-positive maxRunes falls back to
// [DefaultMaxStringLength].
func Excerpt(s string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxStringLength
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	count := 0
	for i := range s {
		if count == maxRunes {
			return s[:i]
		}
		count++
	}
	return s
}

// TruncateString shortens s to at most maxLen characters, appending a suffix
// that records the original total length so callers know data was omitted.
// It is meant for log lines; use [Excerpt] where the length bound must hold.
// If maxLen is zero or negative, [DefaultMaxStringLength] is used instead.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	total := utf8.RuneCountInString(s)
	if total <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", Excerpt(s, maxLen), total)
}
