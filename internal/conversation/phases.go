package conversation

import (
	"context"
	"log"

	"symptom-triage/internal/symptom"
)

const (
	noneOfThese   = "None of these"
	feelingFine   = "None — I feel fine"
	addNotes      = "Yes, I want to add notes"
	doneWithNotes = "No, I'm done"
)

func emergencyCheckPrompt() Response {
	var labels []string
	for _, b := range symptom.EmergencyButtons() {
		labels = append(labels, b.Label)
	}
	return Response{
		Phase:       PhaseEmergencyCheck,
		Message:     "Please select the emergency symptom you are experiencing:",
		MessageType: MessageOptionSelect,
		Options:     append(labels, noneOfThese),
		Progress:    5,
	}
}

func lastChemoPrompt() Response {
	return Response{
		Phase:       PhasePatientContext,
		Message:     "When was your last chemotherapy treatment?",
		MessageType: MessageOptionSelect,
		Options:     symptom.LastChemoOptions,
		Progress:    5,
	}
}

func nextVisitPrompt() Response {
	return Response{
		Phase:       PhasePatientContext,
		Message:     "When is your next scheduled provider visit?",
		MessageType: MessageOptionSelect,
		Options:     symptom.NextVisitOptions,
		Progress:    8,
	}
}

func selectionPrompt() Response {
	return Response{
		Phase:       PhaseSymptomSelection,
		Message:     "What symptoms are you experiencing? Select all that apply.",
		MessageType: MessageMultiSelect,
		Options:     append(symptom.SelectionLabels(), feelingFine),
		Progress:    15,
	}
}

func notesChoicePrompt() Response {
	return Response{
		Phase:       PhaseAddingNotes,
		Message:     "Would you like to add any additional notes for your care team?",
		MessageType: MessageOptionSelect,
		Options:     []string{addNotes, doneWithNotes},
		Progress:    90,
	}
}

func notesTextPrompt() Response {
	return Response{
		Phase:       PhaseAddingNotes,
		Message:     "Please type your additional notes below:",
		MessageType: MessageText,
		Progress:    92,
		Placeholder: "Anything else your care team should know",
	}
}

func (e *Engine) handleDisclaimer(ctx context.Context, s *Session, in PatientResponse) Response {
	if in.answer() == "No" {
		e.setPhase(ctx, s, PhasePatientContext)
		return lastChemoPrompt()
	}
	e.setPhase(ctx, s, PhaseEmergencyCheck)
	return emergencyCheckPrompt()
}

func (e *Engine) handlePatientContext(ctx context.Context, s *Session, in PatientResponse) Response {
	answer := in.answer()
	if s.Context.LastChemo == "" {
		if answer == "" {
			return lastChemoPrompt()
		}
		s.Context.LastChemo = answer
		return nextVisitPrompt()
	}
	if answer == "" {
		return nextVisitPrompt()
	}
	s.Context.NextVisit = answer
	e.setPhase(ctx, s, PhaseSymptomSelection)
	return selectionPrompt()
}

// handleEmergencyCheck routes a named emergency into its own screening so
// the module's evaluator decides whether to escalate.
func (e *Engine) handleEmergencyCheck(ctx context.Context, s *Session, in PatientResponse) Response {
	label := in.answer()
	if label == "" && len(in.SelectedOptions) > 0 {
		label = in.SelectedOptions[0]
	}

	if label == "" {
		return emergencyCheckPrompt()
	}
	if label == noneOfThese {
		e.setPhase(ctx, s, PhasePatientContext)
		return lastChemoPrompt()
	}
	if id, ok := symptom.EmergencyLabelToID(label); ok {
		s.Selected = []symptom.ID{id}
		s.TopIndex = 0
		s.FromEmergencyCheck = true
		e.startModule(ctx, s, id)
		return e.resume(ctx, s)
	}

	return e.escalate(ctx, s, "Emergency: "+label,
		"You reported: "+label+". This requires immediate medical attention.")
}

func (e *Engine) handleSymptomSelection(ctx context.Context, s *Session, in PatientResponse) Response {
	labels := in.SelectedOptions
	if len(labels) == 0 && in.answer() != "" {
		labels = []string{in.answer()}
	}

	for _, label := range labels {
		if label == feelingFine {
			return e.enterSummary(ctx, s)
		}
	}

	var ids []symptom.ID
	seen := map[symptom.ID]bool{}
	for _, label := range labels {
		id, ok := symptom.LabelToID(label)
		if !ok {
			log.Printf("Conversation %s: ignoring unknown symptom %q", s.ConversationID, label)
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		return e.enterSummary(ctx, s)
	}

	s.Selected = ids
	s.TopIndex = 0
	e.startModule(ctx, s, ids[0])
	return e.resume(ctx, s)
}

func (e *Engine) handleSummary(ctx context.Context, s *Session) Response {
	e.setPhase(ctx, s, PhaseAddingNotes)
	return notesChoicePrompt()
}

func (e *Engine) handleAddingNotes(ctx context.Context, s *Session, in PatientResponse) Response {
	switch answer := in.answer(); answer {
	case doneWithNotes, "No":
		return e.complete(ctx, s, "", "Thank you for completing your symptom check-in! "+
			"Your care team will review your responses. Take care! 💙")
	case addNotes, "Yes":
		return notesTextPrompt()
	case "":
		if s.LastPrompt != nil {
			return *s.LastPrompt
		}
		return notesChoicePrompt()
	default:
		return e.complete(ctx, s, answer, "Thank you! Your notes have been added. "+
			"Your care team will review your responses. Take care! 💙")
	}
}

// complete closes a conversation normally: the final summary is stored with
// the patient's notes and the care-team report goes out.
func (e *Engine) complete(ctx context.Context, s *Session, notes, msg string) Response {
	s.Notes = notes
	e.setPhase(ctx, s, PhaseCompleted)
	e.persistReports(ctx, s)

	sum := e.summarize(s)
	err := e.gateway.CreateSessionSummary(ctx, SessionSummary{
		ConversationID:  s.ConversationID,
		PatientID:       s.PatientID,
		Text:            sum.Text,
		PatientNotes:    notes,
		Recommendations: sum.Recommendations,
		EducationLinks:  sum.EducationLinks,
	})
	if err != nil {
		log.Printf("Failed to save session summary for %s: %v", s.ConversationID, err)
	}
	e.sendReport(ctx, s, notes)

	return Response{
		Phase:       PhaseCompleted,
		Message:     msg,
		MessageType: MessageText,
		Progress:    100,
		IsComplete:  true,
	}
}
