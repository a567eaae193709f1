package symptom

import (
	"fmt"
	"strconv"
	"strings"
)

const feverThreshold = 100.3

func systemicModules() []*Module {
	return []*Module{
		feverModule(),
		fatigueModule(),
		coughModule(),
		urinaryModule(),
	}
}

func feverModule() *Module {
	highTemp := TempAbove("temp", feverThreshold)
	return &Module{
		ID:   Fever,
		Name: "Fever",
		Screening: []Question{
			numeric("temp", "Fever can be worrying. What is your temperature? (Enter number, e.g., 101.5)"),
			choice("fever_meds", "What medications have you taken to lower your temperature?", FeverMedsOptions),
			freeText("fever_meds_detail", "What did you take and how often?").
				when(MedsTaken("fever_meds")),
			choice("fever_duration", "How long have you had this fever?", FeverDurationOptions).
				when(highTemp),
			multi("high_temp_symptoms", "Are you experiencing any of these additional symptoms?", FeverAssociatedSymptoms).
				when(highTemp),
			freeText("high_temp_symptoms_other", "Please describe the other symptom:").
				when(AllOf(highTemp, Includes("high_temp_symptoms", "Other"))),
			choice("fever_intake", "Have you been able to eat/drink normally?", OralIntakeOptions).
				when(highTemp),
			yesNo("fever_adl", "Are you able to perform daily self care like bathing, using the toilet, eating independently?").
				when(highTemp),
		},
		EvaluateScreening: func(a Answers) Result {
			temp := Fahrenheit(a.Number(Fever, "temp"))
			meds := a.Text(Fever, "fever_meds")
			detail := a.Text(Fever, "fever_meds_detail")

			taking := func(prefix string) string {
				if !medsTaken(meds) {
					return "No fever medications taken."
				}
				s := prefix + meds
				if detail != "" {
					s += ": " + detail
				}
				return s + "."
			}

			if temp <= feverThreshold {
				msg := fmt.Sprintf("Temperature %.1f°F is below fever threshold (100.3°F). %s Continue to monitor temperature.",
					temp, taking("Patient taking "))
				return Result{Action: ActionStop, Triage: TriageNone, AlertMessage: msg}
			}

			duration := a.Text(Fever, "fever_duration")
			if duration == "" {
				duration = "unknown"
			}
			var associated []string
			for _, s := range a.Options(Fever, "high_temp_symptoms") {
				if s != "None" {
					associated = append(associated, s)
				}
			}
			msg := fmt.Sprintf("Fever %.1f°F (Duration: %s). %s ", temp, duration, taking("Taking "))
			if len(associated) > 0 {
				msg += "Associated symptoms: " + strings.Join(associated, ", ") + "."
			} else {
				msg += "No additional symptoms reported."
			}
			return Result{
				Action:           ActionStop,
				Triage:           TriageNotifyCareTeam,
				AlertMessage:     msg,
				Duration:         a.Text(Fever, "fever_duration"),
				MedicationsTried: meds,
			}
		},
	}
}

func fatigueModule() *Module {
	return &Module{
		ID:   Fatigue,
		Name: "Fatigue",
		Screening: []Question{
			yesNo("daily_activities", "Does the fatigue interfere with your daily activities?"),
			choice("severity", "Rate your fatigue severity:", SeverityOptions),
			numeric("days", "How many continuous days have you felt this fatigue?"),
			choice("worsening", "Is the fatigue worsening, the same, or improving?", WorseningOptions).
				when(AtLeast("days", 3)),
			numeric("hours_bed", "How many hours are you sleeping or spending in bed?"),
			yesNo("worse_yesterday", "Was the fatigue worse yesterday than the day before?"),
			yesNo("self_care", "Does the fatigue affect your ability to perform self-care?"),
		},
		EvaluateScreening: func(a Answers) Result {
			sev := ParseSeverity(a.Text(Fatigue, "severity"))
			n := a.Number(Fatigue, "days")

			var alerts []string
			if a.yes(Fatigue, "daily_activities") {
				alerts = append(alerts, "Significantly interferes with daily activities")
			}
			if sev == SeveritySevere {
				alerts = append(alerts, "Severe fatigue")
			}
			if sev == SeverityModerate && n >= 3 {
				alerts = append(alerts, "Moderate fatigue ≥3 days")
			}
			if a.Text(Fatigue, "worsening") == "Worsening" {
				alerts = append(alerts, "Worsening fatigue")
			}
			if a.yes(Fatigue, "self_care") {
				alerts = append(alerts, "Cannot perform self-care")
			}
			if len(alerts) == 0 {
				return stop()
			}
			r := notify(ActionStop, alerts, nil)
			r.Severity = sev
			r.Duration = days(n)
			return r
		},
	}
}

func coughModule() *Module {
	return &Module{
		ID:   Cough,
		Name: "Cough",
		Screening: []Question{
			numeric("days", "How many days have you had a cough?"),
			numeric("temperature", "What is your temperature?"),
			choice("mucus", "Are you coughing up mucus?", MucusOptions),
			choice("meds", "What cough medications are you taking?", CoughMeds),
			yesNo("meds_helping", "Are the medications helping?").
				when(MedsTaken("meds")),
			yesNo("daily_activities", "Does the cough prevent you from performing daily activities?"),
			yesNo("chest_pain_sob", "Are you having chest pain or shortness of breath?"),
			yesNo("has_oximeter", "Do you have access to a pulse oximeter?"),
			numeric("o2_sat", "What is your oxygen saturation (O2 sat)?").
				when(Equals("has_oximeter", "Yes")),
			choice("severity", "Rate your cough severity:", SeverityOptions),
			yesNo("around_sick", "Have you been around anyone who is sick?"),
		},
		EvaluateScreening: func(a Answers) Result {
			o2 := a.Number(Cough, "o2_sat")
			if a.yes(Cough, "chest_pain_sob") {
				return emergency("Chest pain/shortness of breath with cough — possible emergency.")
			}
			if o2 > 0 && o2 < 90 {
				return emergency("Critically low O2 saturation — call 911.")
			}

			sev := ParseSeverity(a.Text(Cough, "severity"))
			var alerts []string
			if a.Text(Cough, "mucus") == "Blood-streaked" {
				alerts = append(alerts, "Blood-streaked mucus")
			}
			if o2 > 0 && o2 < 94 {
				alerts = append(alerts, fmt.Sprintf("O2 sat %s%% (<94%%)", strconv.FormatFloat(o2, 'f', -1, 64)))
			}
			if sev == SeveritySevere {
				alerts = append(alerts, "Severe cough")
			}
			if Fahrenheit(a.Number(Cough, "temperature")) >= feverThreshold {
				alerts = append(alerts, "Fever ≥100.3°F")
			}
			if len(alerts) == 0 {
				return stop()
			}
			r := notify(ActionStop, alerts, nil)
			r.Severity = sev
			r.Duration = days(a.Number(Cough, "days"))
			r.MedicationsTried = a.Text(Cough, "meds")
			return r
		},
	}
}

func urinaryModule() *Module {
	return &Module{
		ID:   Urinary,
		Name: "Urinary Problems",
		Screening: []Question{
			yesNo("amount_changed", "Has the amount of urine you produce changed?"),
			choice("burning", "Are you experiencing burning with urination?", BurningUrination),
			yesNo("pelvic_pain", "Are you having pelvic pain?"),
			yesNo("blood_urine", "Is there blood in your urine?"),
		},
		FollowUp: []Question{
			yesNo("unusual_smell", "Does your urine have an unusual smell?"),
			yesNo("drinking_normal", "Are you drinking normal amounts of fluids?"),
			yesNo("diabetic", "Are you diabetic?"),
			numeric("blood_sugar", "What is your blood sugar?").
				when(Equals("diabetic", "Yes")),
		},
		EvaluateScreening: func(a Answers) Result {
			burning := a.Text(Urinary, "burning")
			var alerts []string
			if a.yes(Urinary, "amount_changed") {
				alerts = append(alerts, "Drastic urine amount change")
			}
			if a.yes(Urinary, "pelvic_pain") {
				alerts = append(alerts, "Pelvic pain")
			}
			if a.yes(Urinary, "blood_urine") {
				alerts = append(alerts, "Blood in urine")
			}
			if burning == "Moderate" || burning == "Severe" {
				alerts = append(alerts, burning+" burning with urination")
			}
			if len(alerts) == 0 {
				return proceed()
			}
			return notify(ActionContinue, alerts, nil)
		},
		EvaluateFollowUp: func(a Answers) Result {
			sugar := a.Number(Urinary, "blood_sugar")
			var targets []ID
			if a.Text(Urinary, "drinking_normal") == "No" {
				targets = append(targets, Dehydration)
			}
			if sugar > 250 || (sugar > 0 && sugar < 60) {
				level := "low"
				if sugar > 250 {
					level = "high"
				}
				msg := fmt.Sprintf("Blood sugar %s — %s", strconv.FormatFloat(sugar, 'f', -1, 64), level)
				return notify(ActionStop, []string{msg}, targets)
			}
			return stopOrBranch(targets)
		},
	}
}
