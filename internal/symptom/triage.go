package symptom

import "strings"

// TriageLevel is the ordinal urgency attached to a symptom result or a whole conversation.
type TriageLevel string

const (
	TriageNone           TriageLevel = "NONE"
	TriageNotifyCareTeam TriageLevel = "NOTIFY_CARE_TEAM"
	TriageUrgent         TriageLevel = "URGENT"
	TriageCall911        TriageLevel = "CALL_911"
)

// Priority ranks levels so that CALL_911 > URGENT > NOTIFY_CARE_TEAM > NONE.
// Unknown values rank with NONE.
func (t TriageLevel) Priority() int {
	switch t {
	case TriageCall911:
		return 3
	case TriageUrgent:
		return 2
	case TriageNotifyCareTeam:
		return 1
	default:
		return 0
	}
}

// Above reports whether t is more urgent than NONE.
func (t TriageLevel) Above() bool {
	return t.Priority() > 0
}

// MaxTriage returns the most urgent of the given levels, NONE for none.
func MaxTriage(levels ...TriageLevel) TriageLevel {
	max := TriageNone
	for _, l := range levels {
		if l.Priority() > max.Priority() {
			max = l
		}
	}
	return max
}

type Severity string

const (
	SeverityMild     Severity = "MILD"
	SeverityModerate Severity = "MODERATE"
	SeveritySevere   Severity = "SEVERE"
)

// ParseSeverity reads a severity option label such as "Moderate (4–6)".
// It returns "" when the answer carries no severity.
func ParseSeverity(answer string) Severity {
	lower := strings.ToLower(answer)
	switch {
	case lower == "":
		return ""
	case strings.Contains(lower, "mild"):
		return SeverityMild
	case strings.Contains(lower, "moderate"):
		return SeverityModerate
	case strings.Contains(lower, "severe"):
		return SeveritySevere
	}
	return ""
}

// Fahrenheit treats readings between 0 and 45 as Celsius and converts them.
func Fahrenheit(t float64) float64 {
	if t > 0 && t < 45 {
		return t*9/5 + 32
	}
	return t
}

func criticalIntake(answer string) bool {
	lower := strings.ToLower(answer)
	return strings.Contains(lower, "barely") || strings.Contains(lower, "not able")
}

func medsTaken(answer string) bool {
	return answer != "" && answer != "None"
}

func dehydrationSigns(selected []string) bool {
	return len(selected) > 0 && !contains(selected, "None of these")
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
