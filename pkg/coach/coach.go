// Package coach implements the deterministic offline responder used when
// the upstream model is unavailable, slow, or errors. It classifies a
// message into a coaching domain by keyword match and renders a templated
// action plan in the requested language. No network, no storage.
package coach

import (
	"strings"

	"github.com/dishaapp/disha/pkg/lang"
)

// Domain is a coaching topic area.
type Domain string

const (
	DomainFitness      Domain = "fitness"
	DomainStudy        Domain = "study"
	DomainCareer       Domain = "career"
	DomainFinance      Domain = "finance"
	DomainHabit        Domain = "habit"
	DomainProductivity Domain = "productivity"
	DomainMindset      Domain = "mindset"
	DomainGeneral      Domain = "general"
)

// domainOrder fixes classification priority: first matching domain wins.
var domainOrder = []Domain{
	DomainFitness, DomainStudy, DomainCareer, DomainFinance,
	DomainHabit, DomainProductivity, DomainMindset,
}

var domainKeywords = map[Domain][]string{
	DomainFitness:      {"workout", "gym", "exercise", "fitness", "diet", "weight", "yoga", "running", "muscle"},
	DomainStudy:        {"study", "exam", "learn", "course", "homework", "revision", "syllabus", "padh"},
	DomainCareer:       {"career", "job", "interview", "resume", "promotion", "salary", "naukri"},
	DomainFinance:      {"money", "saving", "save", "budget", "invest", "debt", "paisa", "kharcha"},
	DomainHabit:        {"habit", "routine", "streak", "consistent", "consistency", "aadat"},
	DomainProductivity: {"productive", "productivity", "procrastinat", "focus", "time management", "distract"},
	DomainMindset:      {"motivat", "anxious", "anxiety", "stress", "confidence", "overwhelm", "mindset", "mood"},
}

// text is a translated string; hinglish falls back to hi when empty.
type text struct {
	en, hi, hinglish string
}

func (t text) in(l lang.Lang) string {
	switch l {
	case lang.Hindi:
		return t.hi
	case lang.Hinglish:
		if t.hinglish != "" {
			return t.hinglish
		}
		return t.hi
	}
	return t.en
}

var header = text{
	en:       "Got it! Here's a simple plan you can start today:",
	hi:       "समझ गया! यह एक आसान योजना है जो आप आज से शुरू कर सकते हैं:",
	hinglish: "Samajh gaya! Ye ek simple plan hai jo aap aaj se start kar sakte ho:",
}

var tinyStep = text{
	en:       "Tiny step: spend just 10-15 minutes on the first step today.",
	hi:       "छोटा कदम: आज पहले स्टेप पर सिर्फ़ 10-15 मिनट लगाएँ।",
	hinglish: "Tiny step: aaj pehle step par sirf 10-15 minute lagao.",
}

var closingQuestion = text{
	en:       "How much time can you give this daily? Tell me and we'll adjust the plan.",
	hi:       "आप रोज़ इसके लिए कितना समय दे सकते हैं? बताइए, फिर योजना उसी हिसाब से बदल देंगे।",
	hinglish: "Aap daily kitna time de sakte ho? Batao, phir plan usi hisaab se adjust kar denge.",
}

var domainSteps = map[Domain][]text{
	DomainFitness: {
		{
			en:       "Block three fixed workout slots in your calendar for this week.",
			hi:       "इस हफ्ते के लिए कैलेंडर में तीन तय वर्कआउट स्लॉट रखें।",
			hinglish: "Is week ke liye calendar mein teen fixed workout slots rakho.",
		},
		{
			en:       "Lay out your workout kit the night before so starting needs zero decisions.",
			hi:       "रात को ही अपना वर्कआउट का सामान तैयार रखें ताकि शुरू करने में कोई रुकावट न हो।",
			hinglish: "Raat ko hi apna workout ka saman ready rakho taaki subah koi bahana na ho.",
		},
		{
			en:       "Note what you eat for three days before changing your diet.",
			hi:       "डाइट बदलने से पहले तीन दिन तक अपना खाना नोट करें।",
			hinglish: "Diet change karne se pehle teen din ka khana note karo.",
		},
	},
	DomainStudy: {
		{
			en:       "Split your syllabus into small topics and assign one per study session.",
			hi:       "सिलेबस को छोटे टॉपिक में बाँटें और हर सेशन में एक टॉपिक रखें।",
			hinglish: "Syllabus ko chhote topics mein baanto aur har session mein ek topic rakho.",
		},
		{
			en:       "Study in 25-minute focused blocks with your phone in another room.",
			hi:       "फ़ोन दूसरे कमरे में रखकर 25-25 मिनट के फ़ोकस ब्लॉक में पढ़ें।",
			hinglish: "Phone doosre room mein rakh kar 25-25 minute ke focus blocks mein padho.",
		},
		{
			en:       "End each session by writing three things you remember without looking.",
			hi:       "हर सेशन के अंत में बिना देखे तीन बातें लिखें जो याद हैं।",
			hinglish: "Har session ke end mein bina dekhe teen cheezein likho jo yaad hain.",
		},
	},
	DomainCareer: {
		{
			en:       "List your last three months of wins and update your resume with them.",
			hi:       "पिछले तीन महीनों की उपलब्धियाँ लिखें और उन्हें रिज़्यूमे में जोड़ें।",
			hinglish: "Pichhle teen mahino ke wins likho aur unhe resume mein add karo.",
		},
		{
			en:       "Practice answering one interview question out loud each day.",
			hi:       "हर दिन एक इंटरव्यू सवाल का जवाब बोलकर अभ्यास करें।",
			hinglish: "Har din ek interview question ka jawab bol kar practice karo.",
		},
		{
			en:       "Message one person in your target role and ask one specific question.",
			hi:       "अपनी मनचाही भूमिका वाले एक व्यक्ति से संपर्क करें और एक सवाल पूछें।",
			hinglish: "Apni target role waale ek insaan ko message karo aur ek sawal pucho.",
		},
	},
	DomainFinance: {
		{
			en:       "Write down every expense for the next seven days, no judging.",
			hi:       "अगले सात दिन हर खर्च लिखें, बिना खुद को जज किए।",
			hinglish: "Agle saat din har kharcha likho, bina judge kiye.",
		},
		{
			en:       "Set up an automatic transfer to savings on salary day, even a small one.",
			hi:       "सैलरी वाले दिन बचत में अपने-आप ट्रांसफ़र सेट करें, छोटा ही सही।",
			hinglish: "Salary waale din savings mein auto-transfer set karo, chhota hi sahi.",
		},
		{
			en:       "Pick one recurring expense to cut this month.",
			hi:       "इस महीने घटाने के लिए एक नियमित खर्च चुनें।",
			hinglish: "Is mahine kam karne ke liye ek regular kharcha chuno.",
		},
	},
	DomainHabit: {
		{
			en:       "Attach the new habit to something you already do daily, like morning tea.",
			hi:       "नई आदत को किसी रोज़ के काम से जोड़ें, जैसे सुबह की चाय।",
			hinglish: "Nayi aadat ko kisi roz ke kaam se jodo, jaise subah ki chai.",
		},
		{
			en:       "Shrink it until it takes under two minutes to start.",
			hi:       "उसे इतना छोटा करें कि शुरू करने में दो मिनट से कम लगे।",
			hinglish: "Use itna chhota karo ki start karne mein do minute se kam lage.",
		},
		{
			en:       "Mark every completed day on a calendar and protect the streak.",
			hi:       "हर पूरा किया दिन कैलेंडर पर मार्क करें और स्ट्रीक बनाए रखें।",
			hinglish: "Har complete din calendar par mark karo aur streak banaye rakho.",
		},
	},
	DomainProductivity: {
		{
			en:       "Each morning pick the three tasks that matter most, in order.",
			hi:       "हर सुबह सबसे ज़रूरी तीन काम क्रम से चुनें।",
			hinglish: "Har subah sabse zaroori teen kaam order mein chuno.",
		},
		{
			en:       "Work the first task in a 25-minute block with notifications off.",
			hi:       "पहला काम 25 मिनट के ब्लॉक में करें, नोटिफ़िकेशन बंद रखें।",
			hinglish: "Pehla kaam 25 minute ke block mein karo, notifications band rakho.",
		},
		{
			en:       "Spend five minutes each evening reviewing what worked.",
			hi:       "हर शाम पाँच मिनट देखें कि क्या ठीक चला।",
			hinglish: "Har shaam paanch minute dekho ki kya sahi chala.",
		},
	},
	DomainMindset: {
		{
			en:       "Write down exactly what is bothering you in one or two sentences.",
			hi:       "जो बात परेशान कर रही है उसे एक-दो वाक्यों में लिखें।",
			hinglish: "Jo baat pareshan kar rahi hai use ek-do lines mein likho.",
		},
		{
			en:       "Take a five-minute walk or five slow breaths before deciding anything.",
			hi:       "कुछ भी तय करने से पहले पाँच मिनट टहलें या पाँच गहरी साँसें लें।",
			hinglish: "Kuch bhi decide karne se pehle paanch minute walk karo ya paanch deep breaths lo.",
		},
		{
			en:       "Finish one small task today and note how it felt.",
			hi:       "आज एक छोटा काम पूरा करें और लिखें कि कैसा लगा।",
			hinglish: "Aaj ek chhota kaam pura karo aur likho ki kaisa laga.",
		},
	},
	DomainGeneral: {
		{
			en:       "Write your goal in one clear sentence.",
			hi:       "अपना लक्ष्य एक साफ़ वाक्य में लिखें।",
			hinglish: "Apna goal ek clear line mein likho.",
		},
		{
			en:       "Break it into the smallest first step you can do today.",
			hi:       "उसे सबसे छोटे पहले कदम में बाँटें जो आज हो सके।",
			hinglish: "Use sabse chhote pehle step mein baanto jo aaj ho sake.",
		},
		{
			en:       "Decide a fixed time today when you'll do that step.",
			hi:       "आज का एक तय समय चुनें जब वह कदम उठाएँगे।",
			hinglish: "Aaj ka ek fixed time chuno jab wo step karoge.",
		},
	},
}

// maxPlanSteps caps rendered bullets, the always-present tiny step included.
const maxPlanSteps = 4

// ClassifyDomain lower-cases the message and tests the domain keyword sets
// in fixed priority order. No match means general.
func ClassifyDomain(message string) Domain {
	lower := strings.ToLower(message)
	for _, d := range domainOrder {
		for _, kw := range domainKeywords[d] {
			if strings.Contains(lower, kw) {
				return d
			}
		}
	}
	return DomainGeneral
}

// BuildPlan renders the fallback coaching reply for a message in the given
// language: header, bulleted steps, a tiny-step bullet, and a closing
// question. Deterministic for a given (message, language) pair.
func BuildPlan(message string, l lang.Lang) string {
	domain := ClassifyDomain(message)
	steps := domainSteps[domain]

	var sb strings.Builder
	sb.WriteString(header.in(l))
	sb.WriteString("\n")

	n := len(steps)
	if n > maxPlanSteps-1 {
		n = maxPlanSteps - 1
	}
	for i := 0; i < n; i++ {
		sb.WriteString("- ")
		sb.WriteString(steps[i].in(l))
		sb.WriteString("\n")
	}
	sb.WriteString("- ")
	sb.WriteString(tinyStep.in(l))
	sb.WriteString("\n\n")
	sb.WriteString(closingQuestion.in(l))

	return sb.String()
}
