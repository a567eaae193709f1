package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"symptom-triage/internal/hardstop"
	"symptom-triage/internal/summary"
	"symptom-triage/internal/symptom"
)

const emergencyQuestion = "Are you currently experiencing any emergency symptoms such as chest pain, " +
	"difficulty breathing, significant bleeding, fainting, or confusion?"

// CareTeamReport is the end-of-conversation digest sent to the care team.
type CareTeamReport struct {
	ConversationID uuid.UUID
	PatientID      uuid.UUID
	PatientName    string
	Emergency      bool
	Context        PatientContext
	Summary        summary.Summary
	Symptoms       []SymptomReport
	Notes          string
	GeneratedAt    time.Time
}

type ReportSender interface {
	SendCareTeamReport(ctx context.Context, r CareTeamReport) error
}

// Engine drives the triage conversation. Turns for the same conversation
// are serialized; different conversations run concurrently.
type Engine struct {
	store    SessionStore
	gateway  Gateway
	patients PatientDirectory
	alerts   *AlertDispatcher
	reports  ReportSender
	locks    *keyedMutex
	ttl      time.Duration
	now      func() time.Time
}

type EngineConfig struct {
	Store    SessionStore
	Gateway  Gateway
	Patients PatientDirectory
	Alerts   *AlertDispatcher
	// Reports is optional.
	Reports ReportSender
	// SessionTTL expires sessions idle for longer. Zero disables expiry.
	SessionTTL time.Duration
}

func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		store:    cfg.Store,
		gateway:  cfg.Gateway,
		patients: cfg.Patients,
		alerts:   cfg.Alerts,
		reports:  cfg.Reports,
		locks:    newKeyedMutex(),
		ttl:      cfg.SessionTTL,
		now:      time.Now,
	}
}

// StartConversation creates the session and returns the greeting.
func (e *Engine) StartConversation(ctx context.Context, conversationID, patientID uuid.UUID) (Response, error) {
	unlock := e.locks.Lock(conversationID)
	defer unlock()

	name := "there"
	firstTime := true
	p, err := e.patients.LookupPatient(ctx, patientID)
	switch {
	case err == nil:
		if p.FirstName != "" {
			name = p.FirstName
		}
		firstTime = p.ConversationCount <= 1
	case errors.Is(err, ErrPatientNotFound):
	default:
		log.Printf("Patient lookup for %s failed: %v", patientID, err)
	}

	var msg string
	if firstTime {
		msg = fmt.Sprintf("Hi %s! I'm Ruby, your virtual symptom assistant. "+
			"I'll ask you some questions about how you're feeling today. "+
			"Your responses will be shared with your care team.\n\n"+
			"⚠️ **Important:** This is not a substitute for emergency medical care. "+
			"If you are experiencing a medical emergency, please call 911 immediately.\n\n%s", name, emergencyQuestion)
	} else {
		msg = fmt.Sprintf("Hi %s! Let's check in on how you're feeling today.\n\n%s", name, emergencyQuestion)
	}

	s := newSession(conversationID, patientID, name)
	s.CreatedAt = e.now()
	s.UpdatedAt = s.CreatedAt
	resp := Response{
		Phase:       PhaseDisclaimer,
		Message:     msg,
		MessageType: MessageOptionSelect,
		Options:     symptom.YesNoOptions,
		Progress:    0,
	}
	s.LastPrompt = &resp
	if err := e.store.Put(ctx, s); err != nil {
		return Response{}, fmt.Errorf("save session: %w", err)
	}
	return resp, nil
}

// ProcessResponse applies one patient turn. An unknown or expired
// conversation yields ErrSessionNotFound and changes nothing.
func (e *Engine) ProcessResponse(ctx context.Context, conversationID uuid.UUID, in PatientResponse) (Response, error) {
	unlock := e.locks.Lock(conversationID)
	defer unlock()

	s, err := e.load(ctx, conversationID)
	if err != nil {
		return Response{}, err
	}

	resp := e.turn(ctx, s, in)

	s.UpdatedAt = e.now()
	if err := e.store.Put(ctx, s); err != nil {
		return Response{}, fmt.Errorf("save session: %w", err)
	}
	return resp, nil
}

// Snapshot returns the current state of a conversation without advancing it.
func (e *Engine) Snapshot(ctx context.Context, conversationID uuid.UUID) (Snapshot, error) {
	unlock := e.locks.Lock(conversationID)
	defer unlock()

	s, err := e.load(ctx, conversationID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		ConversationID: s.ConversationID,
		Phase:          s.Phase,
		Progress:       phaseProgress(s),
		Emergency:      s.Emergency,
		Selected:       append([]symptom.ID(nil), s.Selected...),
		Discovered:     append([]symptom.ID(nil), s.Discovered...),
		UpdatedAt:      s.UpdatedAt,
	}, nil
}

func (e *Engine) load(ctx context.Context, id uuid.UUID) (*Session, error) {
	s, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.ttl > 0 && e.now().Sub(s.UpdatedAt) > e.ttl {
		if err := e.store.Delete(ctx, id); err != nil {
			log.Printf("Failed to drop expired session %s: %v", id, err)
		}
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (e *Engine) turn(ctx context.Context, s *Session, in PatientResponse) Response {
	if s.Phase.Terminal() {
		return Response{
			Phase:       s.Phase,
			Message:     "This conversation is already complete.",
			MessageType: MessageText,
			Progress:    100,
			IsComplete:  true,
			IsEmergency: s.Emergency,
		}
	}

	if m, input := screen(in); m.Matched() {
		return e.hardStop(ctx, s, m, input)
	}

	var resp Response
	switch s.Phase {
	case PhaseDisclaimer:
		resp = e.handleDisclaimer(ctx, s, in)
	case PhasePatientContext:
		resp = e.handlePatientContext(ctx, s, in)
	case PhaseEmergencyCheck:
		resp = e.handleEmergencyCheck(ctx, s, in)
	case PhaseSymptomSelection:
		resp = e.handleSymptomSelection(ctx, s, in)
	case PhaseScreening, PhaseFollowUp, PhaseBranched:
		resp = e.handleQuestion(ctx, s, in)
	case PhaseSummary:
		resp = e.handleSummary(ctx, s)
	case PhaseAddingNotes:
		resp = e.handleAddingNotes(ctx, s, in)
	default:
		log.Printf("Conversation %s in unknown phase %q", s.ConversationID, s.Phase)
		resp = Response{Phase: s.Phase, Message: "This conversation is already complete.", MessageType: MessageText, IsComplete: true}
	}

	if !resp.IsComplete {
		prompt := resp
		s.LastPrompt = &prompt
	}
	return resp
}

// screen runs the hard-stop detector over every value in the turn. A
// self-harm hit wins over any deflection found in another field.
func screen(in PatientResponse) (hardstop.Match, string) {
	var first hardstop.Match
	var firstInput string
	for _, text := range in.inputs() {
		m := hardstop.Detect(text)
		if m.EndsConversation {
			return m, text
		}
		if m.Matched() && !first.Matched() {
			first, firstInput = m, text
		}
	}
	return first, firstInput
}

func (e *Engine) hardStop(ctx context.Context, s *Session, m hardstop.Match, input string) Response {
	if m.EndsConversation {
		log.Printf("Self-harm hard stop in conversation %s", s.ConversationID)
		s.Emergency = true
		e.setPhase(ctx, s, PhaseEmergency)
		e.raiseAlert(ctx, s, symptom.TriageCall911, fmt.Sprintf("Patient expressed self-harm or suicidal ideation: %q", input))
		e.persistReports(ctx, s)
		e.sendReport(ctx, s, "")
		return Response{
			Phase:       PhaseEmergency,
			Message:     m.Message,
			MessageType: MessageText,
			Progress:    100,
			IsComplete:  true,
			IsEmergency: true,
		}
	}

	resp := Response{Phase: s.Phase, Message: m.Message, MessageType: MessageText, Progress: phaseProgress(s)}
	if s.LastPrompt != nil {
		resp = *s.LastPrompt
		resp.Message = m.Message + "\n\n" + s.LastPrompt.Message
	}
	return resp
}

// escalate ends the conversation as an emergency with exactly one CALL_911 alert.
func (e *Engine) escalate(ctx context.Context, s *Session, alertMsg, shown string) Response {
	s.Emergency = true
	e.setPhase(ctx, s, PhaseEmergency)
	e.raiseAlert(ctx, s, symptom.TriageCall911, alertMsg)
	e.persistReports(ctx, s)
	e.sendReport(ctx, s, "")

	return Response{
		Phase:       PhaseEmergency,
		Message:     "🚨 **Please call 911 immediately.**\n\n" + shown + "\n\nYour care team has been notified.",
		MessageType: MessageText,
		Progress:    100,
		IsComplete:  true,
		IsEmergency: true,
	}
}

// setPhase moves s to p and records the change on the conversation row.
// Terminal phases also stamp completion time and the overall triage level.
func (e *Engine) setPhase(ctx context.Context, s *Session, p Phase) {
	if s.Phase == p {
		return
	}
	s.Phase = p
	u := ConversationUpdate{ID: s.ConversationID, Phase: p, Emergency: s.Emergency}
	if p.Terminal() {
		now := e.now()
		level := overallTriage(s)
		u.CompletedAt = &now
		u.Triage = &level
	}
	if err := e.gateway.UpdateConversation(ctx, u); err != nil {
		log.Printf("Failed to persist phase %s for %s: %v", p, s.ConversationID, err)
	}
}

func overallTriage(s *Session) symptom.TriageLevel {
	level := symptom.TriageNone
	if s.Emergency {
		level = symptom.TriageCall911
	}
	for _, r := range s.Results {
		level = symptom.MaxTriage(level, r.Triage)
	}
	return level
}

func (e *Engine) raiseAlert(ctx context.Context, s *Session, level symptom.TriageLevel, msg string) {
	e.alerts.Dispatch(ctx, Alert{
		ID:             uuid.New(),
		PatientID:      s.PatientID,
		ConversationID: s.ConversationID,
		Triage:         level,
		Message:        msg,
		CreatedAt:      e.now(),
	})
}

func (e *Engine) symptomReports(s *Session) []SymptomReport {
	var reports []SymptomReport
	for _, id := range s.reportOrder() {
		r := s.Results[id]
		reports = append(reports, SymptomReport{
			ConversationID:   s.ConversationID,
			SymptomID:        id,
			Severity:         r.Severity,
			Duration:         r.Duration,
			Triage:           r.Triage,
			Notes:            r.Notes,
			MedicationsTried: r.MedicationsTried,
			BranchedFrom:     r.BranchedFrom,
		})
	}
	return reports
}

// persistReports writes every gathered symptom result once per conversation.
func (e *Engine) persistReports(ctx context.Context, s *Session) {
	if s.ReportsPersisted {
		return
	}
	s.ReportsPersisted = true
	if err := CreateSymptomReports(ctx, e.gateway, e.symptomReports(s)); err != nil {
		log.Printf("Failed to persist symptom reports for %s: %v", s.ConversationID, err)
	}
}

func (e *Engine) summarize(s *Session) summary.Summary {
	return summary.Generate(summary.Input{
		PatientName: s.PatientName,
		Selected:    s.Selected,
		Discovered:  s.Discovered,
		Results:     s.Results,
	})
}

func (e *Engine) sendReport(ctx context.Context, s *Session, notes string) {
	if e.reports == nil {
		return
	}
	r := CareTeamReport{
		ConversationID: s.ConversationID,
		PatientID:      s.PatientID,
		PatientName:    s.PatientName,
		Emergency:      s.Emergency,
		Context:        s.Context,
		Summary:        e.summarize(s),
		Symptoms:       e.symptomReports(s),
		Notes:          notes,
		GeneratedAt:    e.now(),
	}
	if err := e.reports.SendCareTeamReport(ctx, r); err != nil {
		log.Printf("Failed to send care-team report for %s: %v", s.ConversationID, err)
	}
}
