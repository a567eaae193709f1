// Package summary composes the patient-facing closing narrative of a check-in.
package summary

import (
	"fmt"
	"strings"

	"symptom-triage/internal/symptom"
)

// SymptomResult is the merged outcome recorded for one symptom.
type SymptomResult struct {
	Triage           symptom.TriageLevel `json:"triage_level"`
	Severity         symptom.Severity    `json:"severity,omitempty"`
	Duration         string              `json:"duration,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	MedicationsTried string              `json:"medications_tried,omitempty"`
	BranchedFrom     symptom.ID          `json:"branched_from,omitempty"`
}

type Input struct {
	PatientName string
	// Selected is the top-level symptom list in selection order.
	Selected []symptom.ID
	// Discovered lists symptoms reached only through a branch, in discovery order.
	Discovered []symptom.ID
	Results    map[symptom.ID]SymptomResult
}

type Summary struct {
	Text            string                       `json:"summary_text"`
	Recommendations []string                     `json:"recommendations"`
	EducationLinks  []string                     `json:"education_links"`
	OverallTriage   symptom.TriageLevel          `json:"overall_triage_level"`
	Results         map[symptom.ID]SymptomResult `json:"symptom_results"`
}

var closing = map[symptom.TriageLevel]string{
	symptom.TriageCall911:        "🚨 **Please call 911 or go to the nearest emergency room immediately.**",
	symptom.TriageUrgent:         "🔴 **Please contact your care team as soon as possible.**",
	symptom.TriageNotifyCareTeam: "🟡 **Your care team has been notified and will review your symptoms.**",
	symptom.TriageNone:           "✅ **No urgent concerns identified. Your care team will review at your next visit.**",
}

// Generate builds the summary. The overall triage is the most urgent level
// among every recorded result, including branch-discovered ones.
func Generate(in Input) Summary {
	lines := []string{
		fmt.Sprintf("Hi %s,", in.PatientName),
		"",
		"Here is a summary of today's symptom check-in:",
		"",
	}
	recommendations := []string{}
	overall := symptom.TriageNone

	selected := make(map[symptom.ID]bool, len(in.Selected))
	for _, id := range in.Selected {
		selected[id] = true
		r, ok := in.Results[id]
		if !ok {
			continue
		}
		overall = symptom.MaxTriage(overall, r.Triage)
		name := symptom.Name(id)
		lines = append(lines, reportLine(name, r), labelLine(r.Triage))
		if rec := recommendation(name, r.Triage); rec != "" {
			recommendations = append(recommendations, rec)
		}
	}

	for _, id := range in.Discovered {
		r, ok := in.Results[id]
		if !ok || selected[id] {
			continue
		}
		overall = symptom.MaxTriage(overall, r.Triage)
		if !r.Triage.Above() {
			continue
		}
		name := symptom.Name(id)
		notes := r.Notes
		if notes == "" {
			notes = "Flagged for care team review"
		}
		lines = append(lines, fmt.Sprintf("• **%s** (follow-up): %s", name, notes), labelLine(r.Triage))
		recommendations = append(recommendations, recommendation(name, r.Triage))
	}

	lines = append(lines, "", closing[overall])

	results := make(map[symptom.ID]SymptomResult, len(in.Results))
	for id, r := range in.Results {
		results[id] = r
	}

	return Summary{
		Text:            strings.Join(lines, "\n"),
		Recommendations: recommendations,
		EducationLinks:  []string{},
		OverallTriage:   overall,
		Results:         results,
	}
}

func reportLine(name string, r SymptomResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "• **%s**", name)
	if r.Duration != "" {
		fmt.Fprintf(&b, " for %s", r.Duration)
	}
	if r.Severity != "" {
		fmt.Fprintf(&b, ", rated as %s", strings.ToLower(string(r.Severity)))
	}
	if r.MedicationsTried != "" {
		fmt.Fprintf(&b, ", and have tried %s", r.MedicationsTried)
	} else {
		b.WriteString(", and have not tried medications")
	}
	b.WriteString(".")
	if r.Notes != "" {
		notes := strings.TrimSpace(r.Notes)
		if !strings.HasSuffix(notes, ".") {
			notes += "."
		}
		b.WriteString(" " + notes)
	}
	return b.String()
}

func labelLine(t symptom.TriageLevel) string {
	return "  Triage: " + TriageLabel(t)
}

// TriageLabel is the short human-readable name of a triage level.
func TriageLabel(t symptom.TriageLevel) string {
	switch t {
	case symptom.TriageCall911:
		return "CALL 911"
	case symptom.TriageUrgent:
		return "URGENT"
	case symptom.TriageNotifyCareTeam:
		return "Notify care team"
	}
	return "No action needed"
}

func recommendation(name string, t symptom.TriageLevel) string {
	switch t {
	case symptom.TriageCall911:
		return fmt.Sprintf("⚠️ %s: Seek emergency care immediately.", name)
	case symptom.TriageUrgent:
		return fmt.Sprintf("🔴 %s: Contact your care team urgently.", name)
	case symptom.TriageNotifyCareTeam:
		return fmt.Sprintf("🟡 %s: Your care team will be notified.", name)
	}
	return ""
}
