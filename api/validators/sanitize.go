package validators

import "strings"

// SanitizeString trims input and caps it at maxLen bytes when maxLen > 0.
// The cut never splits a multi-byte rune.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 || len(trimmed) <= maxLen {
		return trimmed
	}
	cut := 0
	for i := range trimmed {
		if i > maxLen {
			break
		}
		cut = i
	}
	return trimmed[:cut]
}
