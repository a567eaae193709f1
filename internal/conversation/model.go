package conversation

import (
	"time"

	"github.com/google/uuid"

	"symptom-triage/internal/summary"
	"symptom-triage/internal/symptom"
)

type Phase string

const (
	PhaseDisclaimer       Phase = "DISCLAIMER"
	PhasePatientContext   Phase = "PATIENT_CONTEXT"
	PhaseEmergencyCheck   Phase = "EMERGENCY_CHECK"
	PhaseSymptomSelection Phase = "SYMPTOM_SELECTION"
	PhaseScreening        Phase = "SCREENING"
	PhaseFollowUp         Phase = "FOLLOW_UP"
	PhaseBranched         Phase = "BRANCHED"
	PhaseSummary          Phase = "SUMMARY"
	PhaseAddingNotes      Phase = "ADDING_NOTES"
	PhaseCompleted        Phase = "COMPLETED"
	PhaseEmergency        Phase = "EMERGENCY"
)

// Terminal reports whether no further transitions can happen.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseEmergency
}

// MessageType tells the presentation layer which input widget to render.
type MessageType string

const (
	MessageText         MessageType = "TEXT"
	MessageOptionSelect MessageType = "OPTION_SELECT"
	MessageMultiSelect  MessageType = "MULTI_SELECT"
	MessageNumberInput  MessageType = "NUMBER_INPUT"
	MessageSummary      MessageType = "SUMMARY"
)

// PatientResponse is one patient turn. Which field is set depends on the
// widget the previous Response asked for.
type PatientResponse struct {
	Text            string   `json:"text,omitempty"`
	SelectedOption  string   `json:"selectedOption,omitempty"`
	SelectedOptions []string `json:"selectedOptions,omitempty"`
	NumericValue    *float64 `json:"numericValue,omitempty"`
}

// answer returns the single-valued answer, preferring the selected option.
func (r PatientResponse) answer() string {
	if r.SelectedOption != "" {
		return r.SelectedOption
	}
	return r.Text
}

// freeText returns the typed answer, falling back to the selected option.
func (r PatientResponse) freeText() string {
	if r.Text != "" {
		return r.Text
	}
	return r.SelectedOption
}

// inputs lists every non-empty value the patient sent, typed text first.
func (r PatientResponse) inputs() []string {
	var out []string
	for _, v := range append([]string{r.Text, r.SelectedOption}, r.SelectedOptions...) {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

type Response struct {
	Phase       Phase            `json:"phase"`
	Message     string           `json:"message"`
	MessageType MessageType      `json:"messageType"`
	Options     []string         `json:"options,omitempty"`
	Progress    int              `json:"progress"`
	IsComplete  bool             `json:"isComplete"`
	IsEmergency bool             `json:"isEmergency"`
	Summary     *summary.Summary `json:"summary,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
}

type Section string

const (
	SectionScreening Section = "screening"
	SectionFollowUp  Section = "followUp"
)

type PatientContext struct {
	LastChemo string `json:"last_chemo,omitempty"`
	NextVisit string `json:"next_visit,omitempty"`
}

// Session is the mutable per-conversation state. Only the engine mutates it,
// and only while holding the conversation's lock.
type Session struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	PatientID      uuid.UUID `json:"patient_id"`
	PatientName    string    `json:"patient_name"`
	Phase          Phase     `json:"phase"`

	// Selected is the top-level work list; TopIndex points at the top-level
	// symptom being processed or last processed.
	Selected []symptom.ID `json:"selected"`
	TopIndex int          `json:"top_index"`
	// BranchStack holds pending branch targets, last element on top.
	BranchStack []symptom.ID `json:"branch_stack"`

	Current       symptom.ID `json:"current"`
	Section       Section    `json:"section"`
	QuestionIndex int        `json:"question_index"`

	Answers   symptom.Answers                      `json:"answers"`
	Results   map[symptom.ID]summary.SymptomResult `json:"results"`
	Evaluated map[symptom.ID]bool                  `json:"evaluated"`
	// Discovered lists symptoms processed outside the top-level list, in order.
	Discovered []symptom.ID              `json:"discovered"`
	Parents    map[symptom.ID]symptom.ID `json:"parents"`

	// DehydrationAsked maps a canonical dehydration question to the answer
	// key that first recorded it.
	DehydrationAsked map[string]string `json:"dehydration_asked"`

	Context            PatientContext `json:"context"`
	Emergency          bool           `json:"emergency"`
	FromEmergencyCheck bool           `json:"from_emergency_check"`
	ReportsPersisted   bool           `json:"reports_persisted"`
	Notes              string         `json:"notes,omitempty"`

	// LastPrompt is re-attached to deflections so the patient can resume.
	LastPrompt *Response `json:"last_prompt,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newSession(conversationID, patientID uuid.UUID, name string) *Session {
	now := time.Now()
	return &Session{
		ConversationID:   conversationID,
		PatientID:        patientID,
		PatientName:      name,
		Phase:            PhaseDisclaimer,
		Section:          SectionScreening,
		Answers:          symptom.Answers{},
		Results:          map[symptom.ID]summary.SymptomResult{},
		Evaluated:        map[symptom.ID]bool{},
		Parents:          map[symptom.ID]symptom.ID{},
		DehydrationAsked: map[string]string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// clone returns a deep copy, so a turn can run on a private copy and be
// dropped if the session cannot be saved.
func (s *Session) clone() *Session {
	c := *s
	c.Selected = append([]symptom.ID(nil), s.Selected...)
	c.BranchStack = append([]symptom.ID(nil), s.BranchStack...)
	c.Discovered = append([]symptom.ID(nil), s.Discovered...)

	c.Answers = make(symptom.Answers, len(s.Answers))
	for k, a := range s.Answers {
		c.Answers[k] = a.Clone()
	}
	c.Results = make(map[symptom.ID]summary.SymptomResult, len(s.Results))
	for k, v := range s.Results {
		c.Results[k] = v
	}
	c.Evaluated = make(map[symptom.ID]bool, len(s.Evaluated))
	for k, v := range s.Evaluated {
		c.Evaluated[k] = v
	}
	c.Parents = make(map[symptom.ID]symptom.ID, len(s.Parents))
	for k, v := range s.Parents {
		c.Parents[k] = v
	}
	c.DehydrationAsked = make(map[string]string, len(s.DehydrationAsked))
	for k, v := range s.DehydrationAsked {
		c.DehydrationAsked[k] = v
	}

	if s.LastPrompt != nil {
		p := *s.LastPrompt
		p.Options = append([]string(nil), s.LastPrompt.Options...)
		c.LastPrompt = &p
	}
	return &c
}

func (s *Session) inSelected(id symptom.ID) bool {
	for _, sel := range s.Selected {
		if sel == id {
			return true
		}
	}
	return false
}

func (s *Session) discovered(id symptom.ID) bool {
	for _, d := range s.Discovered {
		if d == id {
			return true
		}
	}
	return false
}

// reportOrder lists every symptom with a result: top-level first, then the
// rest in discovery order.
func (s *Session) reportOrder() []symptom.ID {
	var out []symptom.ID
	for _, id := range s.Selected {
		if _, ok := s.Results[id]; ok {
			out = append(out, id)
		}
	}
	for _, id := range s.Discovered {
		if _, ok := s.Results[id]; ok && !s.inSelected(id) {
			out = append(out, id)
		}
	}
	return out
}

// Snapshot is the read-only view of a conversation returned by the API.
type Snapshot struct {
	ConversationID uuid.UUID    `json:"conversation_id"`
	Phase          Phase        `json:"phase"`
	Progress       int          `json:"progress"`
	Emergency      bool         `json:"emergency"`
	Selected       []symptom.ID `json:"selected_symptoms"`
	Discovered     []symptom.ID `json:"discovered_symptoms"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Patient is what the directory knows about the person starting a conversation.
type Patient struct {
	ID                uuid.UUID
	FirstName         string
	ConversationCount int
}

// Alert is a care-team notification raised by a triage verdict or hard stop.
type Alert struct {
	ID             uuid.UUID           `json:"id"`
	PatientID      uuid.UUID           `json:"patient_id"`
	ConversationID uuid.UUID           `json:"conversation_id"`
	Triage         symptom.TriageLevel `json:"triage_level"`
	Message        string              `json:"message"`
	CreatedAt      time.Time           `json:"created_at"`
}

type SymptomReport struct {
	ConversationID   uuid.UUID
	SymptomID        symptom.ID
	Severity         symptom.Severity
	Duration         string
	Triage           symptom.TriageLevel
	Notes            string
	MedicationsTried string
	BranchedFrom     symptom.ID
}

type SessionSummary struct {
	ConversationID  uuid.UUID
	PatientID       uuid.UUID
	Text            string
	PatientNotes    string
	Recommendations []string
	EducationLinks  []string
}

// ConversationUpdate carries the conversation row fields the engine maintains.
// A nil Triage leaves the stored level untouched.
type ConversationUpdate struct {
	ID          uuid.UUID
	Phase       Phase
	Emergency   bool
	CompletedAt *time.Time
	Triage      *symptom.TriageLevel
}
