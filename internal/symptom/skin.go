package symptom

func skinModules() []*Module {
	return []*Module{
		skinRashModule(),
		swellingModule(),
		eyeModule(),
	}
}

func skinRashModule() *Module {
	return &Module{
		ID:   SkinRash,
		Name: "Skin Rash/Redness",
		Screening: []Question{
			multi("locations", "Where is the rash or redness?", SkinLocations),
			yesNo("facial_breathing", "Are you having trouble breathing?").
				when(Includes("locations", "Face")),
			yesNo("infusion_symptoms", "Is the infusion site swollen, warm, or draining?").
				when(Includes("locations", "Infusion Site")),
			yesNo("coverage", "Does the rash cover more than 30% of your body?"),
			numeric("temperature", "What is your temperature?"),
			choice("severity", "Rate the skin problem severity:", SeverityOptions),
		},
		FollowUp: []Question{
			numeric("days", "How many days have you had this rash?"),
			choice("worsening", "Is the rash getting worse, staying the same, or improving?", WorseningOptions),
			yesNo("blistering", "Is the skin blistering or peeling?"),
			yesNo("itching", "Is the rash itching?"),
			yesNo("feeling_unwell", "Are you feeling generally unwell?"),
		},
		EvaluateScreening: func(a Answers) Result {
			if a.Includes(SkinRash, "locations", "Face") && a.yes(SkinRash, "facial_breathing") {
				return emergency("Facial rash with breathing difficulty — possible allergic reaction. Call 911.")
			}

			sev := ParseSeverity(a.Text(SkinRash, "severity"))
			var alerts []string
			if a.yes(SkinRash, "coverage") {
				alerts = append(alerts, "Rash covers >30% body")
			}
			if sev == SeveritySevere {
				alerts = append(alerts, "Severe skin problem")
			}
			if Fahrenheit(a.Number(SkinRash, "temperature")) >= feverThreshold {
				alerts = append(alerts, "Fever ≥100.3°F")
			}
			if a.yes(SkinRash, "infusion_symptoms") {
				alerts = append(alerts, "Infusion site swollen/warm/draining")
			}
			if len(alerts) == 0 {
				return proceed()
			}
			r := notify(ActionContinue, alerts, nil)
			r.Severity = sev
			return r
		},
		EvaluateFollowUp: func(a Answers) Result {
			blistering := a.yes(SkinRash, "blistering")
			worsening := a.Text(SkinRash, "worsening") == "Worsening" && a.Number(SkinRash, "days") >= 2

			var targets []ID
			if a.yes(SkinRash, "feeling_unwell") {
				targets = append(targets, Fever)
			}
			if !blistering && !worsening {
				return stopOrBranch(targets)
			}
			msg := "Worsening rash ≥2 days"
			if blistering {
				msg = "Skin blistering/peeling"
			}
			r := notify(ActionStop, []string{msg}, targets)
			r.Duration = days(a.Number(SkinRash, "days"))
			return r
		},
	}
}

func swellingModule() *Module {
	return &Module{
		ID:   Swelling,
		Name: "Swelling",
		Screening: []Question{
			multi("locations", "Where is the swelling?", SwellingLocations),
			choice("one_both", "Is the swelling in one side or both sides?", []string{"One side", "Both sides"}),
			freeText("onset", "When did the swelling start?"),
			freeText("cause", "Do you know what caused the swelling?"),
			choice("severity", "Rate the swelling severity:", SeverityOptions),
			multi("associated", "Are you experiencing any of these?", SwellingAssociated),
			yesNo("redness_over", "Is there redness or warmth over the swelling?"),
			yesNo("clot_history", "Do you have a history of blood clots?"),
		},
		EvaluateScreening: func(a Answers) Result {
			locs := a.Options(Swelling, "locations")
			associated := a.Options(Swelling, "associated")
			if contains(associated, "Shortness of breath") || contains(associated, "Chest discomfort") {
				return emergency("Swelling with SOB or chest discomfort — possible DVT/PE. Call 911.")
			}

			sev := ParseSeverity(a.Text(Swelling, "severity"))
			var alerts []string
			if contains(locs, "Face") || contains(locs, "Neck") {
				alerts = append(alerts, "Face/neck swelling")
			}
			if contains(associated, "Fever") {
				alerts = append(alerts, "Fever with swelling")
			}
			if contains(locs, "Legs") && a.Text(Swelling, "one_both") == "One side" {
				alerts = append(alerts, "Unilateral leg swelling — DVT concern")
			}
			if a.yes(Swelling, "redness_over") {
				alerts = append(alerts, "Redness/warmth over swelling")
			}
			if a.yes(Swelling, "clot_history") {
				alerts = append(alerts, "History of blood clots")
			}
			if sev == SeveritySevere {
				alerts = append(alerts, "Severe swelling")
			}
			if len(alerts) == 0 {
				return stop()
			}
			r := notify(ActionStop, alerts, nil)
			r.Severity = sev
			r.Duration = a.Text(Swelling, "onset")
			return r
		},
	}
}

func eyeModule() *Module {
	return &Module{
		ID:   Eye,
		Name: "Eye Complaints",
		Screening: []Question{
			yesNo("new_concern", "Is this a new eye concern?"),
			multi("symptoms", "Which eye symptoms are you experiencing?", EyeSymptoms),
			yesNo("vision_problems", "Are you having any vision problems (blurry vision, double vision, vision loss)?"),
			yesNo("interferes_tasks", "Does this interfere with your daily tasks?"),
			choice("severity", "Rate the severity of your eye problem:", SeverityOptions),
		},
		FollowUp: []Question{
			yesNo("seen_doctor", "Have you seen an eye doctor about this?"),
		},
		EvaluateScreening: func(a Answers) Result {
			sev := ParseSeverity(a.Text(Eye, "severity"))
			var alerts []string
			if a.yes(Eye, "vision_problems") {
				alerts = append(alerts, "Vision problems")
			}
			if a.yes(Eye, "interferes_tasks") {
				alerts = append(alerts, "Interferes with daily tasks")
			}
			if sev == SeveritySevere {
				alerts = append(alerts, "Severe eye problem")
			}
			if len(alerts) == 0 {
				return proceed()
			}
			r := notify(ActionContinue, alerts, nil)
			r.Severity = sev
			return r
		},
		EvaluateFollowUp: func(Answers) Result { return stop() },
	}
}
