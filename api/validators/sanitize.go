package validators

import (
	"strings"
	"unicode"
)

// SanitizeString drops control characters other than newline and tab, trims
// the result and caps it at maxLen runes. A non-positive maxLen means no cap.
func SanitizeString(input string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(input))
	kept := 0
	for _, r := range strings.TrimSpace(input) {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		if maxLen > 0 && kept == maxLen {
			break
		}
		b.WriteRune(r)
		kept++
	}
	return strings.TrimSpace(b.String())
}
