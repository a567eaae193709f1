package symptom

func fallsModule() *Module {
	return &Module{
		ID:     FallsBalance,
		Name:   "Falls & Balance",
		Hidden: true,
		Screening: []Question{
			yesNo("falls", "Have you had any falls since your last visit?"),
			yesNo("new_neuro", "Do you have new dizziness, confusion, or balance problems?"),
		},
		FollowUp: []Question{
			yesNo("head_injury", "Did you hit your head during the fall?").
				when(Equals("falls", "Yes")),
			yesNo("blood_thinners", "Are you taking blood thinners?").
				when(Equals("falls", "Yes")),
		},
		EvaluateScreening: func(a Answers) Result {
			var alerts []string
			if a.yes(FallsBalance, "falls") {
				alerts = append(alerts, "Falls reported")
			}
			if a.yes(FallsBalance, "new_neuro") {
				alerts = append(alerts, "New neuro symptoms")
			}
			if len(alerts) == 0 {
				return stop()
			}
			return notify(ActionContinue, alerts, nil)
		},
		EvaluateFollowUp: func(a Answers) Result {
			headInjury := a.yes(FallsBalance, "head_injury")
			if headInjury && a.yes(FallsBalance, "blood_thinners") {
				return emergency("Head injury while on blood thinners — call 911.")
			}
			if headInjury {
				return notify(ActionStop, []string{"Head injury from fall"}, nil)
			}
			return stop()
		},
	}
}
