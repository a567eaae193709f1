package conversation

import (
	"context"
	"log"

	"symptom-triage/internal/symptom"
)

// resume asks the next eligible question, running evaluators and walking the
// work queue as sections finish, until it has a prompt or a terminal reply.
func (e *Engine) resume(ctx context.Context, s *Session) Response {
	for {
		if q, ok := e.nextQuestion(s); ok {
			return e.questionPrompt(s, q, "")
		}
		if resp, done := e.evaluate(ctx, s); done {
			return resp
		}
	}
}

// evaluate runs the current section's evaluator. done is false when the
// conversation moved on to another section or module and should keep asking.
func (e *Engine) evaluate(ctx context.Context, s *Session) (resp Response, done bool) {
	mod, ok := symptom.Lookup(s.Current)
	if !ok {
		log.Printf("Conversation %s: unknown symptom %q, skipping", s.ConversationID, s.Current)
		return e.advance(ctx, s)
	}

	followUp := s.Section == SectionFollowUp
	r := mod.Evaluate(followUp, s.Answers)
	e.mergeResult(s, s.Current, r)

	switch r.Action {
	case symptom.ActionEmergency:
		return e.escalate(ctx, s, r.AlertMessage, r.AlertMessage), true
	case symptom.ActionContinue:
		if !followUp {
			s.Section = SectionFollowUp
			s.QuestionIndex = 0
			e.setPhase(ctx, s, e.questionPhase(s))
			return Response{}, false
		}
		e.finish(ctx, s)
	case symptom.ActionBranch:
		e.finish(ctx, s)
		e.pushBranches(s, r.BranchTo)
	default:
		e.finish(ctx, s)
	}
	return e.advance(ctx, s)
}

// mergeResult folds one evaluator verdict into the recorded result for id.
// Triage only ever rises; the first reported severity, duration and
// medications stick; alert messages accumulate.
func (e *Engine) mergeResult(s *Session, id symptom.ID, r symptom.Result) {
	rec := s.Results[id]
	rec.Triage = symptom.MaxTriage(rec.Triage, r.Triage)
	if rec.Severity == "" {
		rec.Severity = r.Severity
	}
	if rec.Duration == "" {
		rec.Duration = r.Duration
	}
	if rec.MedicationsTried == "" {
		rec.MedicationsTried = r.MedicationsTried
	}
	if r.AlertMessage != "" {
		if rec.Notes != "" {
			rec.Notes += "; "
		}
		rec.Notes += r.AlertMessage
	}
	if parent, ok := s.Parents[id]; ok && rec.BranchedFrom == "" {
		rec.BranchedFrom = parent
	}
	s.Results[id] = rec
}

// finish marks the current module done and raises its alert, if any.
func (e *Engine) finish(ctx context.Context, s *Session) {
	s.Evaluated[s.Current] = true
	rec := s.Results[s.Current]
	if rec.Triage.Above() && rec.Notes != "" {
		e.raiseAlert(ctx, s, rec.Triage, symptom.Name(s.Current)+": "+rec.Notes)
	}
}

// pushBranches stacks targets so the first one is processed next.
func (e *Engine) pushBranches(s *Session, targets []symptom.ID) {
	for i := len(targets) - 1; i >= 0; i-- {
		t := targets[i]
		if !t.Valid() || t == s.Current || s.Evaluated[t] || s.inSelected(t) {
			continue
		}
		if _, ok := s.Parents[t]; !ok {
			s.Parents[t] = s.Current
		}
		s.BranchStack = append(s.BranchStack, t)
	}
}

// advance starts the next module: pending branches first, then the next
// top-level symptom. done is true when the queue is exhausted.
func (e *Engine) advance(ctx context.Context, s *Session) (Response, bool) {
	for len(s.BranchStack) > 0 {
		n := len(s.BranchStack) - 1
		t := s.BranchStack[n]
		s.BranchStack = s.BranchStack[:n]
		if s.Evaluated[t] || s.inSelected(t) || !t.Valid() {
			continue
		}
		if !s.discovered(t) {
			s.Discovered = append(s.Discovered, t)
		}
		e.startModule(ctx, s, t)
		return Response{}, false
	}

	for s.TopIndex+1 < len(s.Selected) {
		s.TopIndex++
		t := s.Selected[s.TopIndex]
		if s.Evaluated[t] {
			continue
		}
		e.startModule(ctx, s, t)
		return Response{}, false
	}
	s.TopIndex = len(s.Selected)
	return e.exhausted(ctx, s), true
}

// exhausted handles an empty work queue. An emergency-check symptom that
// stood down resumes the regular check-in instead of ending it.
func (e *Engine) exhausted(ctx context.Context, s *Session) Response {
	if !s.FromEmergencyCheck {
		return e.enterSummary(ctx, s)
	}

	s.FromEmergencyCheck = false
	var screened []symptom.ID
	for _, id := range s.Selected {
		if !s.discovered(id) {
			screened = append(screened, id)
		}
	}
	s.Discovered = append(screened, s.Discovered...)
	s.Selected = nil
	s.TopIndex = 0
	s.Current = ""
	s.Section = SectionScreening
	s.QuestionIndex = 0
	e.setPhase(ctx, s, PhasePatientContext)
	return lastChemoPrompt()
}

func (e *Engine) enterSummary(ctx context.Context, s *Session) Response {
	e.setPhase(ctx, s, PhaseSummary)
	e.persistReports(ctx, s)

	sum := e.summarize(s)
	return Response{
		Phase:       PhaseSummary,
		Message:     sum.Text,
		MessageType: MessageSummary,
		Progress:    85,
		Summary:     &sum,
	}
}

func (e *Engine) startModule(ctx context.Context, s *Session, id symptom.ID) {
	s.Current = id
	s.Section = SectionScreening
	s.QuestionIndex = 0
	e.setPhase(ctx, s, e.questionPhase(s))
}

// questionPhase names the phase for the module being asked.
func (e *Engine) questionPhase(s *Session) Phase {
	switch {
	case !s.inSelected(s.Current):
		return PhaseBranched
	case s.Section == SectionFollowUp:
		return PhaseFollowUp
	}
	return PhaseScreening
}
