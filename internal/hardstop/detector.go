// Package hardstop screens free patient input for content the assistant must
// not engage with: self-harm disclosures, requests for medical advice or
// medication changes, and abusive language.
package hardstop

import (
	"regexp"
	"strings"
)

type Category string

const (
	CategoryNone             Category = ""
	CategorySelfHarm         Category = "SELF_HARM"
	CategoryMedicalAdvice    Category = "MEDICAL_ADVICE"
	CategoryMedicationChange Category = "MEDICATION_CHANGE"
	CategoryInappropriate    Category = "INAPPROPRIATE"
)

// Match is the detector verdict for one input.
type Match struct {
	Category Category
	Message  string
	// EndsConversation is set for self-harm, which moves the conversation to
	// the emergency phase. The other categories deflect and resume.
	EndsConversation bool
}

// Matched reports whether any category fired.
func (m Match) Matched() bool {
	return m.Category != CategoryNone
}

const (
	SelfHarmMessage = "I'm very concerned about what you just shared. Your safety is the most important thing right now.\n\n" +
		"🚨 **Please call 911 immediately** if you are in danger.\n\n" +
		"📞 **National Suicide Prevention Lifeline: 988** (call or text, 24/7)\n\n" +
		"Your care team has been notified and will reach out to you. You are not alone."
	MedicalAdviceMessage = "I'm not able to provide medical advice or treatment recommendations. " +
		"Please contact your care team directly for questions about your treatment plan. " +
		"Let's continue with your symptom check-in."
	MedicationChangeMessage = "I'm not able to make changes to your medications. " +
		"Please discuss medication changes with your oncologist or care team. " +
		"Let's continue with your symptom check-in."
	InappropriateMessage = "I'm here to help you track your symptoms and connect you with your care team. " +
		"Let's continue with your check-in."
)

var selfHarmKeywords = []string{
	"kill myself",
	"want to die",
	"end my life",
	"suicide",
	"suicidal",
	"self-harm",
	"self harm",
	"hurt myself",
	"don't want to live",
	"no reason to live",
	"better off dead",
	"wish i was dead",
	"wish i were dead",
}

var medicalAdvicePatterns = compile(
	`should i (take|stop|change|start|increase|decrease)`,
	`what (medication|medicine|drug|treatment) should`,
	`can you (prescribe|recommend|suggest)`,
	`is it (safe|ok|okay) to (take|stop|combine)`,
	`what (dose|dosage) should`,
)

var medicationChangePatterns = compile(
	`change my (medication|medicine|dose|dosage)`,
	`stop (taking|my) (medication|medicine)`,
	`switch (to|from) (a|another|different)`,
	`increase my (dose|dosage)`,
	`decrease my (dose|dosage)`,
)

var inappropriatePattern = regexp.MustCompile(`(?i)\b(fuck|shit|damn|ass|bitch|bastard)\b`)

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

func anyMatch(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Detect checks text against each category in priority order and returns the
// first hit. Empty input never matches.
func Detect(text string) Match {
	if strings.TrimSpace(text) == "" {
		return Match{}
	}
	lower := strings.ToLower(text)

	for _, kw := range selfHarmKeywords {
		if strings.Contains(lower, kw) {
			return Match{Category: CategorySelfHarm, Message: SelfHarmMessage, EndsConversation: true}
		}
	}
	if anyMatch(medicalAdvicePatterns, lower) {
		return Match{Category: CategoryMedicalAdvice, Message: MedicalAdviceMessage}
	}
	if anyMatch(medicationChangePatterns, lower) {
		return Match{Category: CategoryMedicationChange, Message: MedicationChangeMessage}
	}
	if inappropriatePattern.MatchString(text) {
		return Match{Category: CategoryInappropriate, Message: InappropriateMessage}
	}
	return Match{}
}
