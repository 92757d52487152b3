package utils

// TruncateString caps s at max runes, rune-safe so Devanagari text is
// never split mid-character.
func TruncateString(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
