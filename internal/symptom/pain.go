package symptom

func painModules() []*Module {
	return []*Module{
		painRouterModule(),
		neuropathyModule(),
		headacheModule(),
		abdominalPainModule(),
		legPainModule(),
		jointPainModule(),
	}
}

// painRoutes maps a pain location to the module that screens it.
// Chest is handled separately because it escalates.
var painRoutes = map[string]ID{
	"Port/IV Site":           PortSitePain,
	"Head":                   Headache,
	"Leg/Calf":               LegPain,
	"Abdomen":                AbdominalPain,
	"Urinary/Pelvic":         Urinary,
	"Joints/Muscles":         JointPain,
	"General Aches":          JointPain,
	"Nerve Burning/Tingling": Neuropathy,
	"Mouth/Throat":           MouthSores,
}

func painRouterModule() *Module {
	return &Module{
		ID:   Pain,
		Name: "Pain",
		Screening: []Question{
			multi("location", "Where does it hurt?", PainLocations),
			freeText("location_other", "Please describe where else it hurts:").
				when(Includes("location", "Other")),
			choice("severity", "Rate your pain:", SeverityOptions),
			yesNo("daily_activities", "Does pain interfere with your daily activities?"),
			numeric("temperature", "What is your temperature?"),
			yesNo("controlled", "Is your pain controlled with your usual medications?"),
		},
		EvaluateScreening: func(a Answers) Result {
			locations := a.Options(Pain, "location")
			if contains(locations, "Chest") {
				r := branch(ChestPain)
				r.Triage = TriageCall911
				return r
			}
			var targets []ID
			seen := map[ID]bool{}
			for _, loc := range locations {
				target, ok := painRoutes[loc]
				if ok && !seen[target] {
					seen[target] = true
					targets = append(targets, target)
				}
			}
			return stopOrBranch(targets)
		},
	}
}

func neuropathyModule() *Module {
	return &Module{
		ID:   Neuropathy,
		Name: "Neuropathy",
		Screening: []Question{
			freeText("onset", "When did the neuropathy symptoms start?"),
			freeText("location", "Where are you experiencing neuropathy?"),
			yesNo("affects_function", "Does the neuropathy affect your ability to function or perform daily tasks?"),
			choice("severity", "Rate your neuropathy severity:", SeverityOptions),
			yesNo("daily_activities", "Does the neuropathy interfere with your daily activities?"),
		},
		FollowUp: []Question{
			yesNo("fine_motor", "Do you have trouble with fine motor tasks?"),
			yesNo("getting_worse", "Is the neuropathy getting worse?"),
			yesNo("balance", "Do you have trouble with balance or walking?"),
			choice("meds", "What medications are you taking for neuropathy?", NeuropathyMeds),
			freeText("meds_other", "What other medication?").
				when(Equals("meds", "Other")),
			yesNo("meds_helping", "Are the medications helping?").
				when(MedsTaken("meds")),
		},
		EvaluateScreening: func(a Answers) Result {
			sev := ParseSeverity(a.Text(Neuropathy, "severity"))
			var alerts []string
			if sev == SeveritySevere {
				alerts = append(alerts, "Severe neuropathy")
			}
			if a.yes(Neuropathy, "affects_function") || a.yes(Neuropathy, "daily_activities") {
				alerts = append(alerts, "Affects function/ADLs")
			}
			if len(alerts) == 0 {
				return proceed()
			}
			r := notify(ActionContinue, alerts, nil)
			r.Severity = sev
			return r
		},
		EvaluateFollowUp: func(a Answers) Result {
			r := stop()
			if a.yes(Neuropathy, "balance") {
				r = branch(FallsBalance)
			}
			r.MedicationsTried = a.Text(Neuropathy, "meds")
			return r
		},
	}
}

func headacheModule() *Module {
	return &Module{
		ID:     Headache,
		Name:   "Headache",
		Hidden: true,
		Screening: []Question{
			yesNo("worst_ever", "Is this the worst headache you've ever had, or did it start suddenly and very strongly?"),
			multi("neuro_symptoms", "Do you have any of these symptoms?", HeadacheNeuroSymptoms),
			choice("severity", "Rate your headache:", SeverityOptions),
			yesNo("daily_activities", "Does the headache interfere with daily activities?"),
		},
		FollowUp: []Question{
			choice("onset", "When did this headache start?", HeadacheOnsets),
			freeText("duration", "How long has the headache lasted?"),
			yesNo("meds_taken", "Have you taken any medications for the headache?"),
			yesNo("meds_helped", "Did the medications help?").
				when(Equals("meds_taken", "Yes")),
			yesNo("fever", "Do you have a fever?"),
			numeric("temperature", "What is your temperature?").
				when(Equals("fever", "Yes")),
		},
		EvaluateScreening: func(a Answers) Result {
			neuro := a.Options(Headache, "neuro_symptoms")
			if a.yes(Headache, "worst_ever") || (len(neuro) > 0 && !contains(neuro, "None")) {
				return emergency("Worst headache ever or neurological symptoms — call 911.")
			}
			return proceed()
		},
		EvaluateFollowUp: func(a Answers) Result {
			if a.Text(Headache, "onset") == "Sudden" {
				return emergency("Sudden onset headache — call 911.")
			}
			var targets []ID
			if a.yes(Headache, "fever") {
				targets = append(targets, Fever)
			}
			sev := ParseSeverity(a.Text(Headache, "severity"))
			if sev == SeveritySevere || sev == SeverityModerate {
				r := notify(ActionStop, []string{"Severe or moderate headache"}, targets)
				r.Severity = sev
				r.Duration = a.Text(Headache, "duration")
				return r
			}
			return stopOrBranch(targets)
		},
	}
}

func abdominalPainModule() *Module {
	return &Module{
		ID:     AbdominalPain,
		Name:   "Abdominal Pain",
		Hidden: true,
		Screening: []Question{
			choice("severity", "Rate your abdominal pain:", SeverityOptions),
			yesNo("daily_activities", "Does the pain interfere with your daily activities?"),
			numeric("temperature", "What is your temperature?"),
			numeric("days_no_bm", "How many days since your last bowel movement?"),
			yesNo("passing_gas", "Are you able to pass gas?"),
			yesNo("blood_stool", "Is there blood in your stool?"),
		},
		FollowUp: []Question{
			yesNo("vomiting", "Are you vomiting?"),
			yesNo("blood_stool_fu", "Is there blood in your stool?"),
			multi("dehydration", "Any signs of dehydration?", DehydrationSigns),
			choice("last_bm", "When was your last bowel movement?", []string{"Today", "Yesterday", "2+ days ago"}),
		},
		EvaluateScreening: func(a Answers) Result {
			sev := ParseSeverity(a.Text(AbdominalPain, "severity"))
			var alerts []string
			if sev == SeverityModerate || sev == SeveritySevere {
				alerts = append(alerts, "Moderate/severe abdominal pain")
			}
			if a.Number(AbdominalPain, "days_no_bm") >= 3 && a.Text(AbdominalPain, "passing_gas") == "No" {
				alerts = append(alerts, "No BM ≥3 days, not passing gas")
			}
			if Fahrenheit(a.Number(AbdominalPain, "temperature")) >= 100.3 {
				alerts = append(alerts, "Fever >100.3°F")
			}
			if a.yes(AbdominalPain, "blood_stool") {
				alerts = append(alerts, "Blood in stool")
			}
			if len(alerts) == 0 {
				return proceed()
			}
			r := notify(ActionContinue, alerts, nil)
			r.Severity = sev
			return r
		},
		EvaluateFollowUp: func(a Answers) Result {
			var targets []ID
			if a.yes(AbdominalPain, "vomiting") {
				targets = append(targets, Vomiting)
			}
			if dehydrationSigns(a.Options(AbdominalPain, "dehydration")) {
				targets = append(targets, Dehydration)
			}
			if a.Text(AbdominalPain, "last_bm") == "2+ days ago" {
				targets = append(targets, Constipation)
			}
			return stopOrBranch(targets)
		},
	}
}

func legPainModule() *Module {
	return &Module{
		ID:     LegPain,
		Name:   "Leg/Calf Pain",
		Hidden: true,
		Screening: []Question{
			yesNo("asymmetric", "Is one leg more swollen, red, or warm than the other?"),
			yesNo("worse_walking", "Is the pain worse with walking or pressing on the calf?"),
			choice("severity", "Rate your pain:", SeverityOptions),
			yesNo("walking_difficulty", "Does the pain interfere with walking?"),
		},
		FollowUp: []Question{
			yesNo("immobility", "Have you had recent immobility (long travel, bed rest)?"),
			yesNo("clot_history", "Do you have a history of blood clots?"),
			yesNo("sob", "Are you experiencing shortness of breath?"),
		},
		EvaluateScreening: func(a Answers) Result {
			if a.yes(LegPain, "asymmetric") || a.yes(LegPain, "worse_walking") {
				return emergency("Asymmetric leg swelling/redness or pain with walking — DVT concern. Call 911.")
			}
			return proceed()
		},
		EvaluateFollowUp: func(a Answers) Result {
			if a.yes(LegPain, "sob") {
				return emergency("Shortness of breath with leg pain — PE concern. Call 911.")
			}
			switch {
			case a.yes(LegPain, "immobility"):
				return notify(ActionStop, []string{"Recent immobility with leg pain"}, nil)
			case a.yes(LegPain, "clot_history"):
				return notify(ActionStop, []string{"History of blood clots with leg pain"}, nil)
			}
			return stop()
		},
	}
}

func jointPainModule() *Module {
	return &Module{
		ID:     JointPain,
		Name:   "Joint/Muscle/General Pain",
		Hidden: true,
		Screening: []Question{
			choice("pain_type", "What type of pain are you experiencing?", JointPainTypes),
			yesNo("hard_to_move", "Is it hard to move or sleep because of the pain?"),
			choice("severity", "Rate your pain:", SeverityOptions),
			yesNo("daily_activities", "Does the pain interfere with your daily activities?"),
			yesNo("better_rest", "Does the pain get better with rest or over-the-counter medications?"),
			numeric("temperature", "What is your temperature?"),
		},
		FollowUp: []Question{
			choice("description", "How would you describe the pain?", PainDescriptions),
			freeText("duration", "How long have you had this pain?"),
			yesNo("controlled", "Is the pain controlled with your usual medications?"),
		},
		EvaluateScreening: func(a Answers) Result {
			sev := ParseSeverity(a.Text(JointPain, "severity"))
			var alerts []string
			if sev == SeveritySevere {
				alerts = append(alerts, "Severe pain")
			}
			if a.yes(JointPain, "hard_to_move") {
				alerts = append(alerts, "Hard to move/sleep")
			}
			if a.yes(JointPain, "daily_activities") {
				alerts = append(alerts, "ADL interference")
			}
			if a.Text(JointPain, "better_rest") == "No" {
				alerts = append(alerts, "Not better with rest/OTC")
			}
			if Fahrenheit(a.Number(JointPain, "temperature")) >= 100.4 {
				alerts = append(alerts, "Fever ≥100.4°F")
			}
			if len(alerts) == 0 {
				return proceed()
			}
			r := notify(ActionContinue, alerts, nil)
			r.Severity = sev
			return r
		},
		EvaluateFollowUp: func(a Answers) Result {
			if a.Text(JointPain, "controlled") == "No" {
				r := notify(ActionStop, []string{"Pain not controlled with usual medications"}, nil)
				r.Duration = a.Text(JointPain, "duration")
				return r
			}
			return stop()
		},
	}
}
