package summary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"symptom-triage/internal/symptom"
)

func TestGenerateNoSymptoms(t *testing.T) {
	s := Generate(Input{PatientName: "Ana"})

	assert.Equal(t, symptom.TriageNone, s.OverallTriage)
	assert.Equal(t, "Hi Ana,\n\nHere is a summary of today's symptom check-in:\n\n\n"+
		"✅ **No urgent concerns identified. Your care team will review at your next visit.**", s.Text)
	assert.Empty(t, s.Recommendations)
	assert.NotNil(t, s.EducationLinks)
	assert.Empty(t, s.EducationLinks)
}

func TestGenerateSelectedAndDiscovered(t *testing.T) {
	s := Generate(Input{
		PatientName: "Sam",
		Selected:    []symptom.ID{symptom.Nausea, symptom.Fatigue, symptom.Cough},
		Discovered:  []symptom.ID{symptom.Dehydration, symptom.Headache},
		Results: map[symptom.ID]SymptomResult{
			symptom.Nausea: {
				Triage:           symptom.TriageNotifyCareTeam,
				Severity:         symptom.SeverityModerate,
				Duration:         "More than 3 days",
				MedicationsTried: "Zofran (ondansetron)",
				Notes:            "Severe nausea despite medication",
			},
			symptom.Fatigue: {Triage: symptom.TriageNone},
			symptom.Dehydration: {
				Triage:       symptom.TriageNotifyCareTeam,
				Notes:        "Multiple dehydration signs",
				BranchedFrom: symptom.Nausea,
			},
			symptom.Headache: {Triage: symptom.TriageNone, BranchedFrom: symptom.Nausea},
		},
	})

	lines := strings.Split(s.Text, "\n")
	assert.Equal(t, []string{
		"Hi Sam,",
		"",
		"Here is a summary of today's symptom check-in:",
		"",
		"• **Nausea** for More than 3 days, rated as moderate, and have tried Zofran (ondansetron). Severe nausea despite medication.",
		"  Triage: Notify care team",
		"• **Fatigue**, and have not tried medications.",
		"  Triage: No action needed",
		"• **Dehydration** (follow-up): Multiple dehydration signs",
		"  Triage: Notify care team",
		"",
		"🟡 **Your care team has been notified and will review your symptoms.**",
	}, lines)
	assert.Equal(t, []string{
		"🟡 Nausea: Your care team will be notified.",
		"🟡 Dehydration: Your care team will be notified.",
	}, s.Recommendations)
	assert.Equal(t, symptom.TriageNotifyCareTeam, s.OverallTriage)
	assert.Len(t, s.Results, 4)
}

func TestOverallTriageIncludesHiddenResults(t *testing.T) {
	s := Generate(Input{
		PatientName: "Lee",
		Selected:    []symptom.ID{symptom.Pain},
		Discovered:  []symptom.ID{symptom.ChestPain},
		Results: map[symptom.ID]SymptomResult{
			symptom.Pain:      {Triage: symptom.TriageUrgent},
			symptom.ChestPain: {Triage: symptom.TriageCall911},
		},
	})
	assert.Equal(t, symptom.TriageCall911, s.OverallTriage)
	assert.Contains(t, s.Text, "• **Chest Pain** (follow-up): Flagged for care team review")
	assert.True(t, strings.HasSuffix(s.Text, "🚨 **Please call 911 or go to the nearest emergency room immediately.**"))
	assert.Contains(t, s.Text, "• **Chest Pain** (follow-up): Flagged for care team review\n  Triage: CALL 911")
	assert.Equal(t, []string{
		"🔴 Pain: Contact your care team urgently.",
		"⚠️ Chest Pain: Seek emergency care immediately.",
	}, s.Recommendations)
}

func TestReportLineKeepsNoteTerminator(t *testing.T) {
	got := reportLine("Fever", SymptomResult{Duration: "Today", Notes: "Temp 101.2°F."})
	assert.Equal(t, "• **Fever** for Today, and have not tried medications. Temp 101.2°F.", got)
}

func TestTriageLabel(t *testing.T) {
	assert.Equal(t, "CALL 911", TriageLabel(symptom.TriageCall911))
	assert.Equal(t, "URGENT", TriageLabel(symptom.TriageUrgent))
	assert.Equal(t, "Notify care team", TriageLabel(symptom.TriageNotifyCareTeam))
	assert.Equal(t, "No action needed", TriageLabel(symptom.TriageNone))
}
