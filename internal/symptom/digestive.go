package symptom

import (
	"strconv"
	"strings"
)

func digestiveModules() []*Module {
	return []*Module{
		nauseaModule(),
		vomitingModule(),
		diarrheaModule(),
		constipationModule(),
		noAppetiteModule(),
		mouthSoresModule(),
		dehydrationModule(),
	}
}

func days(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64) + " days"
}

func nauseaModule() *Module {
	return &Module{
		ID:   Nausea,
		Name: "Nausea",
		Screening: []Question{
			choice("duration", "I'm sorry to hear you're feeling nauseous. How long has this been going on?", DurationOptions),
			choice("worsening", "Is the nausea worsening or the same?", WorseningOptions).
				when(Equals("duration", "More than 3 days")),
			choice("oral_intake", "How is your oral intake?", OralIntakeOptions),
			choice("meds", "What anti-nausea medications are you taking?", NauseaMeds),
			freeText("med_frequency", "How often are you taking these medications?").
				when(Equals("meds", "Other")),
			choice("severity_with_meds", "Rate your nausea after taking medication:", SeverityOptions).
				when(MedsTaken("meds")),
			choice("severity_no_meds", "Rate your nausea:", SeverityOptions).
				when(NoMeds("meds")),
		},
		FollowUp: []Question{
			yesNo("vomiting", "Have you been vomiting?"),
			yesNo("abd_pain", "Are you having abdominal pain?"),
			multi("dehydration", "Any signs of dehydration?", DehydrationSigns),
			freeText("vitals", "Please enter your vitals (HR and BP):").
				when(Includes("dehydration", "I know my vitals")),
			yesNo("fluids_down", "Have you been able to keep fluids down?"),
			yesNo("self_care", "Are you able to perform daily self-care (bathing, dressing)?"),
		},
		EvaluateScreening: func(a Answers) Result {
			intake := a.Text(Nausea, "oral_intake")
			severity := ParseSeverity(a.Text(Nausea, "severity_with_meds"))
			if severity == "" {
				severity = ParseSeverity(a.Text(Nausea, "severity_no_meds"))
			}
			meds := a.Text(Nausea, "meds")
			duration := a.Text(Nausea, "duration")
			worsening := a.Text(Nausea, "worsening")

			var msg string
			switch {
			case criticalIntake(intake):
				msg = "Patient reports barely eating/drinking or unable to eat/drink."
			case severity == SeveritySevere && medsTaken(meds):
				msg = "Severe nausea despite medication."
			case severity == SeverityModerate && duration == "More than 3 days" &&
				(worsening == "Worsening" || worsening == "Same"):
				msg = "Moderate nausea for >3 days and worsening/same."
			default:
				return proceed()
			}
			return Result{
				Action:           ActionContinue,
				Triage:           TriageNotifyCareTeam,
				AlertMessage:     msg,
				Severity:         severity,
				Duration:         duration,
				MedicationsTried: meds,
			}
		},
		EvaluateFollowUp: func(a Answers) Result {
			if dehydrationSigns(a.Options(Nausea, "dehydration")) {
				return branch(Dehydration)
			}
			return stop()
		},
	}
}

func vomitingModule() *Module {
	return &Module{
		ID:   Vomiting,
		Name: "Vomiting",
		Screening: []Question{
			numeric("days", "How many days have you been vomiting?"),
			choice("worsening", "Is the vomiting worsening or the same?", WorseningOptions).
				when(AtLeast("days", 3)),
			choice("frequency", "How many times have you vomited in the last 24 hours?", VomitingFrequencyOptions),
			choice("oral_intake", "How is your oral intake over the last 12 hours?", OralIntakeOptions),
			choice("meds", "What medications for vomiting are you taking?", NauseaMeds),
			choice("severity_with_meds", "Rate your severity after medication:", SeverityOptions).
				when(MedsTaken("meds")),
		},
		FollowUp: []Question{
			yesNo("abd_pain", "Are you having abdominal pain?"),
			multi("dehydration", "Any signs of dehydration?", DehydrationSigns),
			yesNo("self_care", "Are you able to perform daily self-care?"),
		},
		EvaluateScreening: func(a Answers) Result {
			sev := ParseSeverity(a.Text(Vomiting, "severity_with_meds"))
			n := a.Number(Vomiting, "days")
			meds := a.Text(Vomiting, "meds")

			var alerts []string
			if a.Text(Vomiting, "frequency") == "More than 6 times" {
				alerts = append(alerts, ">6 vomiting episodes in 24h")
			}
			if strings.Contains(strings.ToLower(a.Text(Vomiting, "oral_intake")), "not able") {
				alerts = append(alerts, "No oral intake in last 12h")
			}
			if sev == SeveritySevere && medsTaken(meds) {
				alerts = append(alerts, "Severe vomiting despite meds")
			}
			if sev == SeverityModerate && n >= 3 {
				alerts = append(alerts, "Moderate vomiting for ≥3 continuous days")
			}
			if len(alerts) == 0 {
				return proceed()
			}
			r := notify(ActionContinue, alerts, nil)
			r.Severity = sev
			r.Duration = days(n)
			r.MedicationsTried = meds
			return r
		},
		EvaluateFollowUp: func(a Answers) Result {
			if dehydrationSigns(a.Options(Vomiting, "dehydration")) {
				return branch(Dehydration)
			}
			return stop()
		},
	}
}

func diarrheaModule() *Module {
	return &Module{
		ID:   Diarrhea,
		Name: "Diarrhea",
		Screening: []Question{
			numeric("days", "How many days have you had diarrhea?"),
			choice("worsening", "Is it worsening or the same?", WorseningOptions).
				when(AtLeast("days", 3)),
			numeric("loose_stools", "How many loose stools in the last 24 hours?"),
			multi("stool_symptoms", "Are you experiencing any of these with your stool?", StoolSymptoms),
			yesNo("abd_pain", "Are you having abdominal pain?"),
			choice("abd_pain_severity", "Rate your abdominal pain:", SeverityOptions).
				when(Equals("abd_pain", "Yes")),
			choice("meds", "What anti-diarrhea medications are you taking?", DiarrheaMeds),
			choice("severity_with_meds", "Rate severity after medication:", SeverityOptions).
				when(MedsTaken("meds")),
			choice("severity_no_meds", "Rate your diarrhea severity:", SeverityOptions).
				when(NoMeds("meds")),
			multi("dehydration", "Any signs of dehydration?", DehydrationSigns),
			freeText("vitals", "Please enter your vitals:").
				when(Includes("dehydration", "I know my vitals")),
			choice("oral_intake", "How is your oral intake?", OralIntakeOptions),
			yesNo("self_care", "Are you able to perform daily self-care?"),
		},
		EvaluateScreening: func(a Answers) Result {
			abdSev := ParseSeverity(a.Text(Diarrhea, "abd_pain_severity"))
			sev := ParseSeverity(a.Text(Diarrhea, "severity_with_meds"))
			if sev == "" {
				sev = ParseSeverity(a.Text(Diarrhea, "severity_no_meds"))
			}
			n := a.Number(Diarrhea, "days")
			meds := a.Text(Diarrhea, "meds")
			dehydrated := dehydrationSigns(a.Options(Diarrhea, "dehydration"))

			var alerts []string
			if a.Number(Diarrhea, "loose_stools") > 5 {
				alerts = append(alerts, ">5 loose stools/day")
			}
			if abdSev == SeverityModerate || abdSev == SeveritySevere {
				alerts = append(alerts, "Moderate/severe abdominal pain")
			}
			for _, s := range a.Options(Diarrhea, "stool_symptoms") {
				if s == "Black stool" || s == "Blood in stool" || s == "Mucus" {
					alerts = append(alerts, "Abnormal stool (black/blood/mucus)")
					break
				}
			}
			if dehydrated {
				alerts = append(alerts, "Dehydration signs present")
			}
			if criticalIntake(a.Text(Diarrhea, "oral_intake")) {
				alerts = append(alerts, "Intake barely/none")
			}
			if sev == SeveritySevere && medsTaken(meds) {
				alerts = append(alerts, "Severe despite meds")
			}
			if sev == SeverityModerate && n >= 3 {
				alerts = append(alerts, "Moderate ≥3 days")
			}

			var targets []ID
			if dehydrated {
				targets = append(targets, Dehydration)
			}
			if len(alerts) == 0 {
				return stopOrBranch(targets)
			}
			r := notify(ActionStop, alerts, targets)
			r.Severity = sev
			r.Duration = days(n)
			r.MedicationsTried = meds
			return r
		},
	}
}

func constipationModule() *Module {
	return &Module{
		ID:   Constipation,
		Name: "Constipation",
		Screening: []Question{
			numeric("days_no_bm", "How many days since your last bowel movement?"),
			yesNo("passing_gas", "Are you able to pass gas?"),
			numeric("days_no_gas", "How many days since you last passed gas?").
				when(Equals("passing_gas", "No")),
			yesNo("abd_discomfort", "Are you experiencing abdominal discomfort?"),
			yesNo("abd_pain", "Are you having abdominal pain?"),
			choice("abd_pain_severity", "Rate your abdominal pain:", SeverityOptions).
				when(Equals("abd_pain", "Yes")),
			multi("dehydration", "Any signs of dehydration?", DehydrationSigns),
			choice("meds", "What constipation medications are you taking?", ConstipationMeds),
		},
		EvaluateScreening: func(a Answers) Result {
			daysNoBM := a.Number(Constipation, "days_no_bm")
			abdSev := ParseSeverity(a.Text(Constipation, "abd_pain_severity"))
			dehydrated := dehydrationSigns(a.Options(Constipation, "dehydration"))

			var alerts []string
			if daysNoBM >= 2 {
				alerts = append(alerts, "No BM for ≥2 days")
			}
			if abdSev == SeverityModerate || abdSev == SeveritySevere {
				alerts = append(alerts, "Moderate/severe abdominal pain")
			}
			if dehydrated {
				alerts = append(alerts, "Dehydration signs present")
			}

			var targets []ID
			if dehydrated {
				targets = append(targets, Dehydration)
			}
			if len(alerts) == 0 {
				return stopOrBranch(targets)
			}
			r := notify(ActionStop, alerts, targets)
			r.Duration = days(daysNoBM) + " since last BM"
			r.MedicationsTried = a.Text(Constipation, "meds")
			return r
		},
	}
}

func noAppetiteModule() *Module {
	return &Module{
		ID:   NoAppetite,
		Name: "No Appetite",
		Screening: []Question{
			choice("oral_intake", "How is your oral intake (eating and drinking)?", OralIntakeOptions),
			yesNo("weight_loss", "Have you lost more than 3 pounds in the last week?"),
			yesNo("eating_less", "Are you eating less than half of your usual meals for 2 days or more?"),
			choice("severity", "Rate your discomfort:", SeverityOptions),
		},
		EvaluateScreening: func(a Answers) Result {
			sev := ParseSeverity(a.Text(NoAppetite, "severity"))

			var alerts []string
			if strings.Contains(strings.ToLower(a.Text(NoAppetite, "oral_intake")), "not able") {
				alerts = append(alerts, "Intake = none")
			}
			if a.yes(NoAppetite, "weight_loss") {
				alerts = append(alerts, "Weight loss >3 lbs")
			}
			if a.yes(NoAppetite, "eating_less") {
				alerts = append(alerts, "Eating less than half ≥2 days")
			}
			if sev == SeveritySevere {
				alerts = append(alerts, "Severe discomfort")
			}
			if len(alerts) == 0 {
				return stop()
			}
			r := notify(ActionStop, alerts, nil)
			r.Severity = sev
			return r
		},
	}
}

func mouthSoresModule() *Module {
	return &Module{
		ID:   MouthSores,
		Name: "Mouth Sores",
		Screening: []Question{
			choice("oral_intake", "How is your oral intake?", OralIntakeOptions),
			yesNo("weight_loss", "Have you lost more than 3 pounds in the last week?"),
			choice("remedy", "What remedies have you tried?",
				[]string{"Magic Mouthwash Rinse 5–10 mL for 30–60 sec every 4–6h", "Other", "None"}),
			freeText("remedy_other", "What remedy have you tried?").
				when(Equals("remedy", "Other")),
			numeric("remedy_days", "How many days have you been using this remedy?").
				when(NotEquals("remedy", "None")),
			yesNo("remedy_helped", "Has the remedy helped?").
				when(NotEquals("remedy", "None")),
			numeric("temperature", "What is your temperature?"),
			choice("severity", "Rate your discomfort:", SeverityOptions),
		},
		FollowUp: []Question{
			yesNo("swallow_pain", "Are you having any pain when you swallow?"),
			yesNo("dark_urine", "Is your urine dark?"),
			yesNo("less_urine", "Is the amount of urine a lot less over the last 12 hours?"),
			yesNo("thirsty", "Are you very thirsty?"),
			yesNo("lightheaded", "Are you lightheaded?"),
			freeText("vitals", "Do you know your heart rate and blood pressure?"),
		},
		EvaluateScreening: func(a Answers) Result {
			sev := ParseSeverity(a.Text(MouthSores, "severity"))

			var alerts []string
			if criticalIntake(a.Text(MouthSores, "oral_intake")) {
				alerts = append(alerts, "Intake = barely/none")
			}
			if a.yes(MouthSores, "weight_loss") {
				alerts = append(alerts, "Weight loss >3 lbs")
			}
			if sev == SeveritySevere {
				alerts = append(alerts, "Severe discomfort")
			}
			if Fahrenheit(a.Number(MouthSores, "temperature")) >= 100.3 {
				alerts = append(alerts, "Fever ≥100.3°F")
			}
			if len(alerts) == 0 {
				return proceed()
			}
			r := notify(ActionContinue, alerts, nil)
			r.Severity = sev
			r.MedicationsTried = a.Text(MouthSores, "remedy")
			return r
		},
		EvaluateFollowUp: func(a Answers) Result {
			dark := isDarkUrine(a.Text(MouthSores, "dark_urine"))
			if dark || a.yes(MouthSores, "less_urine") || a.yes(MouthSores, "thirsty") || a.yes(MouthSores, "lightheaded") {
				return branch(Dehydration)
			}
			return stop()
		},
	}
}

func dehydrationModule() *Module {
	return &Module{
		ID:     Dehydration,
		Name:   "Dehydration",
		Hidden: true,
		Screening: []Question{
			choice("urine_color", "What color is your urine?", UrineColorOptions),
			yesNo("less_urine", "Is the amount of urine a lot less over the last 12 hours?"),
			yesNo("thirsty", "Are you very thirsty?"),
			yesNo("lightheaded", "Are you lightheaded?"),
			freeText("vitals", "Do you know your heart rate and blood pressure?"),
			yesNo("vomiting", "Have you been vomiting?"),
			yesNo("diarrhea", "Have you had diarrhea?"),
			choice("oral_intake", "How is your oral intake?", OralIntakeOptions),
			yesNo("fever", "Do you have a fever?"),
		},
		EvaluateScreening: func(a Answers) Result {
			signs := 0
			for _, present := range []bool{
				isDarkUrine(a.Text(Dehydration, "urine_color")),
				a.yes(Dehydration, "less_urine"),
				a.yes(Dehydration, "thirsty"),
				a.yes(Dehydration, "lightheaded"),
			} {
				if present {
					signs++
				}
			}

			var alerts []string
			if signs >= 2 {
				alerts = append(alerts, "Multiple dehydration signs")
			}
			if criticalIntake(a.Text(Dehydration, "oral_intake")) {
				alerts = append(alerts, "Intake barely/none")
			}
			if len(alerts) == 0 {
				return stop()
			}
			return notify(ActionStop, alerts, nil)
		},
	}
}

// isDarkUrine accepts both the yes/no "is your urine dark" answer and the
// urine color scale, since either may have been carried over from another module.
func isDarkUrine(answer string) bool {
	switch answer {
	case "Yes", "Dark yellow", "Orange", "Brown":
		return true
	}
	return false
}
