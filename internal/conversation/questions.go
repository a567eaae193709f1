package conversation

import (
	"context"
	"log"
	"math"
	"strconv"

	"symptom-triage/internal/symptom"
	"symptom-triage/internal/validation"
)

// Dehydration questions are asked under different ids by several modules.
// Each maps onto one canonical key so the patient answers it only once.
var dehydrationCanonical = map[string]string{
	"urine_color": "urine",
	"dark_urine":  "urine",
	"less_urine":  "reduced_urine",
	"thirsty":     "thirst",
	"lightheaded": "lightheaded",
	"vitals":      "vitals",
	"dehydration": "checklist",
}

var dehydrationModules = map[symptom.ID]bool{
	symptom.Dehydration:   true,
	symptom.Nausea:        true,
	symptom.Vomiting:      true,
	symptom.Diarrhea:      true,
	symptom.Constipation:  true,
	symptom.MouthSores:    true,
	symptom.AbdominalPain: true,
}

// canonicalKey returns "" for questions outside the dehydration table.
func canonicalKey(sym symptom.ID, questionID string) string {
	if !dehydrationModules[sym] {
		return ""
	}
	return dehydrationCanonical[questionID]
}

// nextQuestion moves the question index to the next eligible question of the
// current section. Already-answered dehydration questions are skipped and the
// earlier answer is copied under this module's key.
func (e *Engine) nextQuestion(s *Session) (symptom.Question, bool) {
	mod, ok := symptom.Lookup(s.Current)
	if !ok {
		return symptom.Question{}, false
	}
	questions := mod.Questions(s.Section == SectionFollowUp)

	for ; s.QuestionIndex < len(questions); s.QuestionIndex++ {
		q := questions[s.QuestionIndex]
		if !q.When.Holds(s.Current, s.Answers) {
			continue
		}
		if ck := canonicalKey(s.Current, q.ID); ck != "" {
			if from, asked := s.DehydrationAsked[ck]; asked {
				key := symptom.Key(s.Current, q.ID)
				if _, has := s.Answers[key]; !has {
					s.Answers[key] = s.Answers[from]
				}
				continue
			}
		}
		return q, true
	}
	return symptom.Question{}, false
}

func (e *Engine) handleQuestion(ctx context.Context, s *Session, in PatientResponse) Response {
	q, ok := e.nextQuestion(s)
	if !ok {
		return e.resume(ctx, s)
	}
	if retry, ok := e.record(s, q, in); !ok {
		return retry
	}
	s.QuestionIndex++
	return e.resume(ctx, s)
}

// record stores the patient's answer to q. A NUMBER answer that fails
// validation is not stored and the returned prompt asks again.
func (e *Engine) record(s *Session, q symptom.Question, in PatientResponse) (Response, bool) {
	key := symptom.Key(s.Current, q.ID)

	var a symptom.Answer
	switch q.Type {
	case symptom.TypeNumber:
		res := validation.Validate(q.ID, numericInput(in))
		if !res.Valid {
			return e.questionPrompt(s, q, res.Error), false
		}
		a = symptom.NumberAnswer(res.Value)
		if validation.KindOf(q.ID) == validation.KindBloodPressure {
			diastolic := res.Secondary
			a.Secondary = &diastolic
		}
	case symptom.TypeMultiSelect:
		opts := in.SelectedOptions
		if len(opts) == 0 && in.answer() != "" {
			opts = []string{in.answer()}
		}
		a = symptom.Answer{Options: opts}
	case symptom.TypeText:
		a = symptom.Answer{Text: in.freeText()}
	default:
		a = symptom.Answer{Text: in.answer()}
	}

	s.Answers[key] = a
	if ck := canonicalKey(s.Current, q.ID); ck != "" {
		if _, asked := s.DehydrationAsked[ck]; !asked {
			s.DehydrationAsked[ck] = key
		}
	}
	return Response{}, true
}

func numericInput(in PatientResponse) string {
	if in.NumericValue != nil && !math.IsNaN(*in.NumericValue) {
		return strconv.FormatFloat(*in.NumericValue, 'f', -1, 64)
	}
	return in.answer()
}

func (e *Engine) questionPrompt(s *Session, q symptom.Question, errMsg string) Response {
	msg := q.Text
	var placeholder string
	if q.Type == symptom.TypeNumber {
		placeholder = validation.Hint(q.ID)
	}
	if errMsg != "" {
		msg = errMsg + "\n\n" + q.Text
		if placeholder != "" {
			msg += "\n(" + placeholder + ")"
		}
	}
	return Response{
		Phase:       s.Phase,
		Message:     msg,
		MessageType: messageTypeFor(q.Type),
		Options:     q.Options,
		Progress:    progress(s),
		Placeholder: placeholder,
	}
}

func messageTypeFor(t symptom.QuestionType) MessageType {
	switch t {
	case symptom.TypeChoice, symptom.TypeYesNo:
		return MessageOptionSelect
	case symptom.TypeMultiSelect:
		return MessageMultiSelect
	case symptom.TypeNumber:
		return MessageNumberInput
	case symptom.TypeText:
		return MessageText
	}
	log.Printf("Unknown question type %q", t)
	return MessageText
}

// progress maps the position in the top-level list onto 20..85.
func progress(s *Session) int {
	if len(s.Selected) == 0 {
		return 20
	}
	p := int(math.Round(20 + float64(s.TopIndex)/float64(len(s.Selected))*65))
	if p > 85 {
		p = 85
	}
	return p
}

func phaseProgress(s *Session) int {
	switch s.Phase {
	case PhaseDisclaimer:
		return 0
	case PhaseEmergencyCheck:
		return 5
	case PhasePatientContext:
		if s.Context.LastChemo != "" {
			return 8
		}
		return 5
	case PhaseSymptomSelection:
		return 15
	case PhaseSummary:
		return 85
	case PhaseAddingNotes:
		return 90
	case PhaseCompleted, PhaseEmergency:
		return 100
	}
	return progress(s)
}
