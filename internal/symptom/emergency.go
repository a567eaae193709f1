package symptom

import "strings"

// singleQuestionEmergency builds the one-question modules that escalate on "Yes"
// and stand down otherwise.
func singleQuestionEmergency(id ID, name string, hidden bool, qid, text, alert string) *Module {
	return &Module{
		ID:        id,
		Name:      name,
		Hidden:    hidden,
		Screening: []Question{yesNo(qid, text)},
		EvaluateScreening: func(a Answers) Result {
			if a.yes(id, qid) {
				return emergency(alert)
			}
			return stop()
		},
	}
}

func emergencyModules() []*Module {
	return []*Module{
		singleQuestionEmergency(TroubleBreathing, "Trouble Breathing", false, "q1",
			"Are you having Trouble Breathing or Shortness of Breath right now?",
			"Patient reports Trouble Breathing or Shortness of Breath."),
		singleQuestionEmergency(ChestPain, "Chest Pain", true, "q1",
			"Are you having Chest pain?",
			"Patient reports Chest Pain."),
		bleedingModule(),
		singleQuestionEmergency(Fainting, "Fainting / Syncope", false, "faint",
			"Have you fainted or felt like you were going to faint?",
			"Patient reports fainting or near-fainting episode."),
		singleQuestionEmergency(AlteredMental, "Altered Mental Status", false, "confused",
			"Are you feeling confused, disoriented, or having trouble speaking?",
			"Patient reports confusion, disorientation, or sudden change."),
		portSiteModule(),
	}
}

func bleedingModule() *Module {
	return &Module{
		ID:   Bleeding,
		Name: "Bleeding / Bruising",
		Screening: []Question{
			yesNo("pressure", "Are you bleeding and the bleeding won't stop with pressure?"),
			yesNo("stool_urine", "Do you have any blood in your stool or urine?"),
			yesNo("injury", "Did you injure yourself?"),
			yesNo("thinners", "Are you on blood thinners?"),
			choice("location", "Is the bruising in one area or all over your body?", []string{"One area", "All over"}),
		},
		EvaluateScreening: func(a Answers) Result {
			if a.yes(Bleeding, "pressure") {
				return emergency("Call 911 right now. Bleeding that will not stop with pressure requires immediate emergency care.")
			}
			// Blood in stool or urine is prompt but not 911.
			if a.yes(Bleeding, "stool_urine") {
				return Result{
					Action:       ActionStop,
					Triage:       TriageNotifyCareTeam,
					AlertMessage: "Contact your care team or go to the emergency department. Blood in stool or urine requires prompt medical evaluation.",
				}
			}
			return stop()
		},
	}
}

func portSiteModule() *Module {
	return &Module{
		ID:     PortSitePain,
		Name:   "Port/IV Site Pain",
		Hidden: true,
		Screening: []Question{
			yesNo("redness", "Is there new redness around the port/IV site?"),
			yesNo("drainage", "Is there any drainage from the site?"),
			yesNo("chills", "Are you having chills?"),
			numeric("temperature", "What is your temperature?"),
		},
		EvaluateScreening: func(a Answers) Result {
			var signs []string
			if a.yes(PortSitePain, "redness") {
				signs = append(signs, "redness")
			}
			if a.yes(PortSitePain, "drainage") {
				signs = append(signs, "drainage")
			}
			if a.yes(PortSitePain, "chills") {
				signs = append(signs, "chills")
			}
			if len(signs) == 0 {
				return stop()
			}
			if Fahrenheit(a.Number(PortSitePain, "temperature")) >= 100.3 {
				return emergency("Port/IV site infection signs WITH fever ≥100.3°F — call 911.")
			}
			return Result{
				Action:       ActionStop,
				Triage:       TriageNotifyCareTeam,
				AlertMessage: "Port/IV site concern: " + strings.Join(signs, ", "),
			}
		},
	}
}
