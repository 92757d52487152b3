// Package lang classifies user utterances into the languages the coach
// speaks: English, Hindi (Devanagari script), or romanized Hinglish.
package lang

import "strings"

// Lang is a supported reply language.
type Lang string

const (
	English  Lang = "en"
	Hindi    Lang = "hi"
	Hinglish Lang = "hinglish"
)

// Valid reports whether s is a known language code.
func Valid(s string) bool {
	switch Lang(s) {
	case English, Hindi, Hinglish:
		return true
	}
	return false
}

// Romanized Hindi function words. A substring hit on any of these marks an
// all-Latin message as Hinglish.
var hinglishKeywords = []string{
	"kya", "hai", "kr", "kar", "nahi", "ni", "chahiye", "krna", "kro",
	"mujhe", "mera", "aap", "samajh", "samjh", "batao", "btao",
}

// Detect classifies an utterance. It is pure, never errors, and defaults
// to English on anything unexpected.
func Detect(text string) (result Lang) {
	defer func() {
		if r := recover(); r != nil {
			result = English
		}
	}()

	var nonLatin, devanagari bool
	for _, r := range text {
		if r > 0x7F {
			nonLatin = true
		}
		if r >= 0x0900 && r <= 0x097F {
			devanagari = true
		}
	}
	if nonLatin && devanagari {
		return Hindi
	}

	lower := strings.ToLower(text)
	for _, kw := range hinglishKeywords {
		if strings.Contains(lower, kw) {
			return Hinglish
		}
	}

	return English
}

// Effective resolves the reply language from a stored preference and the
// detected language of the current message. An explicit non-Latin script
// always wins over a stored preference; otherwise the preference wins.
func Effective(preferred string, detected Lang) Lang {
	if detected == Hindi {
		return Hindi
	}
	if Valid(preferred) {
		return Lang(preferred)
	}
	return detected
}
