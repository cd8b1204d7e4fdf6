package utils

// Truncate shortens s to at most maxLen runes, appending an ellipsis.
// Rune-based so multi-byte text (KCC answers are often Devanagari) is
// never split mid-character.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
