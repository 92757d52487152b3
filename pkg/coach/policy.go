package coach

import (
	"strings"

	"github.com/dishaapp/disha/pkg/lang"
)

// Policy gates user utterances against a configured list of disallowed
// substrings before any model call is made. An empty or missing term list
// passes everything; this is a productivity coach, not a safety gate.
type Policy struct {
	terms []string
}

func NewPolicy(terms []string) *Policy {
	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(strings.ToLower(t))
		if t != "" {
			lowered = append(lowered, t)
		}
	}
	return &Policy{terms: lowered}
}

// Blocked reports whether the utterance contains any disallowed term,
// case-insensitive substring match.
func (p *Policy) Blocked(utterance string) bool {
	if len(p.terms) == 0 {
		return false
	}
	lower := strings.ToLower(utterance)
	for _, t := range p.terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

var refusal = text{
	en:       "I can't help with that topic. I can help you with goals, habits, study, fitness, career, money, and staying motivated. What would you like to work on?",
	hi:       "मैं इस विषय में मदद नहीं कर सकती। मैं लक्ष्य, आदतें, पढ़ाई, फ़िटनेस, करियर, पैसे और मोटिवेशन में आपकी मदद कर सकती हूँ। आप किस पर काम करना चाहेंगे?",
	hinglish: "Main is topic mein help nahi kar sakti. Main goals, habits, padhai, fitness, career, paise aur motivation mein aapki help kar sakti hoon. Aap kis par kaam karna chahenge?",
}

// RefusalMessage returns the fixed localized message sent in place of a
// generated reply when Blocked reports true.
func RefusalMessage(l lang.Lang) string {
	return refusal.in(l)
}
