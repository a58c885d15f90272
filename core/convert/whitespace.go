package convert

import "strings"

// NormalizeWhitespace collapses every run of blank lines (empty or
// whitespace-only) to a single empty line and drops blank lines at the start
// and end. Non-blank lines are kept byte for byte, in order.
func NormalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	previousBlank := true // suppresses leading blank lines
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if !previousBlank {
				out = append(out, "")
			}
			previousBlank = true
			continue
		}
		out = append(out, line)
		previousBlank = false
	}

	if len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
