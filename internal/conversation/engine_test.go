package conversation

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symptom-triage/internal/hardstop"
	"symptom-triage/internal/symptom"
)

func TestStartConversationGreetings(t *testing.T) {
	h := newHarness(t)
	first, returning := uuid.New(), uuid.New()
	h.patients[first] = Patient{ID: first, FirstName: "Dana", ConversationCount: 1}
	h.patients[returning] = Patient{ID: returning, FirstName: "Dana", ConversationCount: 4}

	resp, err := h.engine.StartConversation(context.Background(), uuid.New(), first)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Message, "Hi Dana! I'm Ruby, your virtual symptom assistant."))
	assert.Contains(t, resp.Message, "call 911 immediately")
	assert.True(t, strings.HasSuffix(resp.Message, emergencyQuestion))
	assert.Equal(t, PhaseDisclaimer, resp.Phase)
	assert.Equal(t, MessageOptionSelect, resp.MessageType)
	assert.Equal(t, []string{"Yes", "No"}, resp.Options)
	assert.Zero(t, resp.Progress)

	resp, err = h.engine.StartConversation(context.Background(), uuid.New(), returning)
	require.NoError(t, err)
	assert.Equal(t, "Hi Dana! Let's check in on how you're feeling today.\n\n"+emergencyQuestion, resp.Message)

	resp, err = h.engine.StartConversation(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Message, "Hi there!"))
}

func TestPatientContextPrompts(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)

	resp := h.pick(t, id, "No")
	assert.Equal(t, PhasePatientContext, resp.Phase)
	assert.Equal(t, "When was your last chemotherapy treatment?", resp.Message)
	assert.Equal(t, symptom.LastChemoOptions, resp.Options)
	assert.Equal(t, 5, resp.Progress)

	resp = h.pick(t, id, "")
	assert.Equal(t, "When was your last chemotherapy treatment?", resp.Message)

	resp = h.pick(t, id, "Yesterday")
	assert.Equal(t, "When is your next scheduled provider visit?", resp.Message)
	assert.Equal(t, 8, resp.Progress)

	resp = h.pick(t, id, "Next week")
	assert.Equal(t, PhaseSymptomSelection, resp.Phase)
	assert.Equal(t, MessageMultiSelect, resp.MessageType)
	assert.Len(t, resp.Options, 17)
	assert.Equal(t, "None — I feel fine", resp.Options[16])
	assert.Equal(t, 15, resp.Progress)

	s := h.session(t, id)
	assert.Equal(t, PatientContext{LastChemo: "Yesterday", NextVisit: "Next week"}, s.Context)
}

func TestNoSymptomsGoesStraightToSummary(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)
	h.toSelection(t, id)

	resp := h.multi(t, id, "None — I feel fine")
	assert.Equal(t, PhaseSummary, resp.Phase)
	assert.Equal(t, MessageSummary, resp.MessageType)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, symptom.TriageNone, resp.Summary.OverallTriage)
	assert.Equal(t, 85, resp.Progress)
	assert.Empty(t, h.gateway.reports)
}

func TestNauseaCheckInEndToEnd(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)
	h.toSelection(t, id)

	resp := h.multi(t, id, "Nausea")
	assert.Equal(t, PhaseScreening, resp.Phase)
	assert.Equal(t, MessageOptionSelect, resp.MessageType)
	assert.Equal(t, symptom.DurationOptions, resp.Options)
	assert.Equal(t, 20, resp.Progress)

	h.pick(t, id, "Less than 24 hours")
	h.pick(t, id, "Barely eating/drinking")
	resp = h.pick(t, id, "None")
	assert.Equal(t, "Rate your nausea:", resp.Message)

	resp = h.pick(t, id, "Mild (1–3)")
	assert.Equal(t, PhaseFollowUp, resp.Phase)
	assert.Equal(t, "Have you been vomiting?", resp.Message)
	assert.Zero(t, h.gateway.alertCount(), "screening alert waits for the module to finish")

	h.pick(t, id, "No")
	resp = h.pick(t, id, "No")
	assert.Equal(t, MessageMultiSelect, resp.MessageType)
	resp = h.multi(t, id, "Very thirsty")
	assert.Equal(t, "Have you been able to keep fluids down?", resp.Message)
	h.pick(t, id, "Yes")

	resp = h.pick(t, id, "Yes")
	assert.Equal(t, PhaseBranched, resp.Phase)
	assert.Equal(t, "What color is your urine?", resp.Message)
	require.Len(t, h.gateway.alerts, 1)
	assert.Equal(t, symptom.TriageNotifyCareTeam, h.gateway.alerts[0].Triage)
	assert.Equal(t, "Nausea: Patient reports barely eating/drinking or unable to eat/drink.", h.gateway.alerts[0].Message)

	for _, a := range []string{"Light yellow", "No", "Yes", "No"} {
		h.pick(t, id, a)
	}
	h.send(t, id, PatientResponse{Text: "I don't know them"})
	for _, a := range []string{"No", "No", "Barely eating/drinking"} {
		h.pick(t, id, a)
	}
	resp = h.pick(t, id, "No")

	assert.Equal(t, PhaseSummary, resp.Phase)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, symptom.TriageNotifyCareTeam, resp.Summary.OverallTriage)
	require.Len(t, h.gateway.alerts, 2)
	assert.Equal(t, "Dehydration: Intake barely/none", h.gateway.alerts[1].Message)

	require.Len(t, h.gateway.reports, 2)
	assert.Equal(t, symptom.Nausea, h.gateway.reports[0].SymptomID)
	assert.Equal(t, "None", h.gateway.reports[0].MedicationsTried)
	deh, ok := reportFor(h.gateway.reports, symptom.Dehydration)
	require.True(t, ok)
	assert.Equal(t, symptom.Nausea, deh.BranchedFrom)

	resp = h.pick(t, id, "ok")
	assert.Equal(t, PhaseAddingNotes, resp.Phase)
	assert.Equal(t, []string{"Yes, I want to add notes", "No, I'm done"}, resp.Options)
	assert.Equal(t, 90, resp.Progress)

	resp = h.pick(t, id, "Yes, I want to add notes")
	assert.Equal(t, MessageText, resp.MessageType)
	assert.Equal(t, 92, resp.Progress)

	resp = h.send(t, id, PatientResponse{Text: "Tired since Monday"})
	assert.True(t, resp.IsComplete)
	assert.Equal(t, PhaseCompleted, resp.Phase)
	assert.True(t, strings.HasPrefix(resp.Message, "Thank you! Your notes have been added."))
	assert.Equal(t, 100, resp.Progress)

	require.Len(t, h.gateway.summaries, 1)
	assert.Equal(t, "Tired since Monday", h.gateway.summaries[0].PatientNotes)
	require.Len(t, h.reports.sent, 1)
	assert.Equal(t, "Tired since Monday", h.reports.sent[0].Notes)
	assert.Len(t, h.gateway.reports, 2, "reports are persisted once")

	assert.Equal(t, []Phase{
		PhasePatientContext, PhaseSymptomSelection, PhaseScreening, PhaseFollowUp,
		PhaseBranched, PhaseSummary, PhaseAddingNotes, PhaseCompleted,
	}, h.gateway.phases())
	last := h.gateway.updates[len(h.gateway.updates)-1]
	require.NotNil(t, last.CompletedAt)
	require.NotNil(t, last.Triage)
	assert.Equal(t, symptom.TriageNotifyCareTeam, *last.Triage)

	resp = h.pick(t, id, "hello?")
	assert.Equal(t, "This conversation is already complete.", resp.Message)
	assert.True(t, resp.IsComplete)
}

func TestFinishWithoutNotes(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)
	h.toSelection(t, id)
	h.multi(t, id, "None — I feel fine")
	h.pick(t, id, "next")

	resp := h.pick(t, id, "No, I'm done")
	assert.True(t, resp.IsComplete)
	assert.Equal(t, "Thank you for completing your symptom check-in! Your care team will review your responses. Take care! 💙", resp.Message)
	require.Len(t, h.gateway.summaries, 1)
	assert.Empty(t, h.gateway.summaries[0].PatientNotes)
}

func TestDehydrationQuestionAskedOnce(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)
	h.toSelection(t, id)

	h.multi(t, id, "Nausea", "Vomiting")
	for _, a := range []string{"Less than 24 hours", "Normal", "None", "Mild (1–3)", "No", "No"} {
		h.pick(t, id, a)
	}
	h.multi(t, id, "None of these")
	h.pick(t, id, "Yes")
	resp := h.pick(t, id, "Yes")

	assert.Equal(t, "How many days have you been vomiting?", resp.Message)
	assert.Equal(t, MessageNumberInput, resp.MessageType)
	assert.Equal(t, 53, resp.Progress)

	h.send(t, id, PatientResponse{NumericValue: ptr(1)})
	for _, a := range []string{"1–2 times", "Normal", "None"} {
		h.pick(t, id, a)
	}
	resp = h.pick(t, id, "No")
	assert.Equal(t, "Are you able to perform daily self-care?", resp.Message,
		"the dehydration checklist was already answered under Nausea")

	s := h.session(t, id)
	assert.Equal(t, []string{"None of these"}, s.Answers.Options(symptom.Vomiting, "dehydration"))

	resp = h.pick(t, id, "Yes")
	assert.Equal(t, PhaseSummary, resp.Phase)
	assert.Zero(t, h.gateway.alertCount())
}

func ptr(v float64) *float64 { return &v }

func TestInvalidNumberRepromptsWithoutAdvancing(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)
	h.toSelection(t, id)
	h.multi(t, id, "Vomiting")

	resp := h.send(t, id, PatientResponse{Text: "400"})
	assert.True(t, strings.HasPrefix(resp.Message, "Days 400 seems too high."))
	assert.Contains(t, resp.Message, "How many days have you been vomiting?")
	assert.Equal(t, "e.g., 3", resp.Placeholder)
	assert.Equal(t, MessageNumberInput, resp.MessageType)
	assert.Zero(t, h.session(t, id).QuestionIndex)

	resp = h.send(t, id, PatientResponse{Text: "lots"})
	assert.Contains(t, resp.Message, "Please enter a valid number")

	resp = h.send(t, id, PatientResponse{NumericValue: ptr(2)})
	assert.Equal(t, "How many times have you vomited in the last 24 hours?", resp.Message)
	assert.Equal(t, 2.0, h.session(t, id).Answers.Number(symptom.Vomiting, "days"))
}

func TestDeflectionRepeatsPendingPrompt(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)
	h.toSelection(t, id)
	h.multi(t, id, "Vomiting")
	pending := h.send(t, id, PatientResponse{NumericValue: ptr(2)})

	resp := h.send(t, id, PatientResponse{Text: "Should I take more Zofran?"})
	assert.Equal(t, hardstop.MedicalAdviceMessage+"\n\n"+pending.Message, resp.Message)
	assert.Equal(t, pending.Options, resp.Options)
	assert.Equal(t, pending.Phase, resp.Phase)
	assert.False(t, resp.IsComplete)

	resp = h.pick(t, id, "1–2 times")
	assert.Equal(t, "How is your oral intake over the last 12 hours?", resp.Message)
}

func TestSelfHarmEndsConversation(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)

	resp := h.send(t, id, PatientResponse{Text: "honestly I want to die"})
	assert.True(t, resp.IsEmergency)
	assert.True(t, resp.IsComplete)
	assert.Equal(t, PhaseEmergency, resp.Phase)
	assert.Equal(t, hardstop.SelfHarmMessage, resp.Message)

	require.Len(t, h.gateway.alerts, 1)
	assert.Equal(t, symptom.TriageCall911, h.gateway.alerts[0].Triage)
	assert.Len(t, h.reports.sent, 1)

	resp = h.send(t, id, PatientResponse{Text: "suicide"})
	assert.Equal(t, "This conversation is already complete.", resp.Message)
	assert.Equal(t, 1, h.gateway.alertCount())
}

func TestSelfHarmTypedNextToOption(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)

	resp := h.send(t, id, PatientResponse{SelectedOption: "No", Text: "honestly I want to kill myself"})
	assert.Equal(t, PhaseEmergency, resp.Phase)
	assert.True(t, resp.IsEmergency)
	require.Equal(t, 1, h.gateway.alertCount())
	assert.Contains(t, h.gateway.alerts[0].Message, "kill myself")
}

func TestSelfHarmWinsOverDeflection(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)
	h.toSelection(t, id)

	resp := h.send(t, id, PatientResponse{
		Text:            "should I take more pills",
		SelectedOptions: []string{"Nausea", "I want to die"},
	})
	assert.Equal(t, PhaseEmergency, resp.Phase)
	assert.Equal(t, hardstop.SelfHarmMessage, resp.Message)
	assert.Equal(t, 1, h.gateway.alertCount())
}

func TestFailedSaveDiscardsTurn(t *testing.T) {
	h := newHarness(t)
	store := &flakyStore{SessionStore: h.engine.store}
	h.engine.store = store
	id := h.start(t)

	store.failPut = true
	_, err := h.engine.ProcessResponse(context.Background(), id, PatientResponse{SelectedOption: "No"})
	require.ErrorIs(t, err, errDBDown)
	assert.Equal(t, PhaseDisclaimer, h.session(t, id).Phase)

	store.failPut = false
	resp := h.pick(t, id, "No")
	assert.Equal(t, PhasePatientContext, resp.Phase)
	assert.Equal(t, "When was your last chemotherapy treatment?", resp.Message)
	assert.Empty(t, h.session(t, id).Context.LastChemo)
}

func TestFeelingFineWithSymptomsGoesToSummary(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)
	h.toSelection(t, id)

	resp := h.multi(t, id, "Nausea", "None — I feel fine")
	assert.Equal(t, PhaseSummary, resp.Phase)
	assert.Empty(t, h.session(t, id).Selected)
	assert.Zero(t, h.gateway.alertCount())
}

func TestTextQuestionPrefersTypedAnswer(t *testing.T) {
	h := newHarness(t)
	s := newSession(uuid.New(), uuid.New(), "Dana")
	s.Current = symptom.Pain
	q := symptom.Question{ID: "location_other", Type: symptom.TypeText}

	_, ok := h.engine.record(s, q, PatientResponse{SelectedOption: "Other", Text: "lower back"})
	require.True(t, ok)
	assert.Equal(t, "lower back", s.Answers.Text(symptom.Pain, "location_other"))

	_, ok = h.engine.record(s, q, PatientResponse{SelectedOption: "Left hip"})
	require.True(t, ok)
	assert.Equal(t, "Left hip", s.Answers.Text(symptom.Pain, "location_other"))
}

func TestEmergencyCheckConfirmed(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)

	resp := h.pick(t, id, "Yes")
	assert.Equal(t, PhaseEmergencyCheck, resp.Phase)
	assert.Equal(t, "None of these", resp.Options[len(resp.Options)-1])
	assert.Contains(t, resp.Options, "Chest Pain")

	resp = h.pick(t, id, "Chest Pain")
	assert.Equal(t, PhaseScreening, resp.Phase)
	assert.Equal(t, "Are you having Chest pain?", resp.Message)

	resp = h.pick(t, id, "Yes")
	assert.True(t, resp.IsEmergency)
	assert.Equal(t, "🚨 **Please call 911 immediately.**\n\nPatient reports Chest Pain.\n\nYour care team has been notified.", resp.Message)
	require.Len(t, h.gateway.alerts, 1)
	assert.Equal(t, symptom.TriageCall911, h.gateway.alerts[0].Triage)
	require.Len(t, h.reports.sent, 1)
	assert.True(t, h.reports.sent[0].Emergency)

	last := h.gateway.updates[len(h.gateway.updates)-1]
	assert.Equal(t, PhaseEmergency, last.Phase)
	assert.True(t, last.Emergency)
	require.NotNil(t, last.CompletedAt)
}

func TestEmergencyCheckStandDownResumesCheckIn(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)
	h.pick(t, id, "Yes")
	h.pick(t, id, "Chest Pain")

	resp := h.pick(t, id, "No")
	assert.Equal(t, PhasePatientContext, resp.Phase)
	assert.Equal(t, "When was your last chemotherapy treatment?", resp.Message)
	assert.Zero(t, h.gateway.alertCount())

	h.pick(t, id, "Today")
	h.pick(t, id, "Tomorrow")
	resp = h.multi(t, id, "None — I feel fine")
	assert.Equal(t, PhaseSummary, resp.Phase)

	require.Len(t, h.gateway.reports, 1)
	assert.Equal(t, symptom.ChestPain, h.gateway.reports[0].SymptomID)
	assert.Equal(t, symptom.TriageNone, h.gateway.reports[0].Triage)
}

func TestEmergencyCheckNoneOfThese(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)
	h.pick(t, id, "Yes")

	resp := h.pick(t, id, "None of these")
	assert.Equal(t, PhasePatientContext, resp.Phase)
	assert.Equal(t, symptom.LastChemoOptions, resp.Options)
}

func TestEmergencyCheckUnmappedLabelEscalates(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)
	h.pick(t, id, "Yes")

	resp := h.pick(t, id, "Seizure")
	assert.True(t, resp.IsEmergency)
	assert.Equal(t, "🚨 **Please call 911 immediately.**\n\nYou reported: Seizure. This requires immediate medical attention.\n\nYour care team has been notified.", resp.Message)
	require.Len(t, h.gateway.alerts, 1)
	assert.Equal(t, "Emergency: Seizure", h.gateway.alerts[0].Message)
}

func TestPainRoutesChestToEmergency(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)
	h.toSelection(t, id)

	resp := h.multi(t, id, "Pain")
	assert.Equal(t, "Where does it hurt?", resp.Message)
	h.multi(t, id, "Chest")
	h.pick(t, id, "Severe (7–10)")
	resp = h.pick(t, id, "Yes")
	assert.Equal(t, MessageNumberInput, resp.MessageType)
	h.send(t, id, PatientResponse{NumericValue: ptr(37)})
	resp = h.pick(t, id, "No")

	assert.Equal(t, PhaseBranched, resp.Phase)
	assert.Equal(t, "Are you having Chest pain?", resp.Message)
	assert.Zero(t, h.gateway.alertCount())
	assert.Equal(t, 98.6, h.session(t, id).Answers.Number(symptom.Pain, "temperature"))

	resp = h.pick(t, id, "Yes")
	assert.True(t, resp.IsEmergency)
	assert.Equal(t, 1, h.gateway.alertCount())

	chest, ok := reportFor(h.gateway.reports, symptom.ChestPain)
	require.True(t, ok)
	assert.Equal(t, symptom.Pain, chest.BranchedFrom)
}

func TestUnknownAndExpiredSessions(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.ProcessResponse(context.Background(), uuid.New(), PatientResponse{Text: "No"})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	h.engine.now = func() time.Time { return now }
	id := h.start(t)

	now = now.Add(2 * time.Hour)
	_, err = h.engine.ProcessResponse(context.Background(), id, PatientResponse{SelectedOption: "No"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = h.engine.store.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, h.gateway.updates)
}

func TestSnapshot(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)
	h.toSelection(t, id)
	h.multi(t, id, "Fever", "Cough")

	snap, err := h.engine.Snapshot(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, PhaseScreening, snap.Phase)
	assert.Equal(t, []symptom.ID{symptom.Fever, symptom.Cough}, snap.Selected)
	assert.Equal(t, 20, snap.Progress)
	assert.False(t, snap.Emergency)
}

func TestConcurrentTurnsAreSerialized(t *testing.T) {
	h := newHarness(t)
	id := h.start(t)

	const n = 10
	var wg sync.WaitGroup
	responses := make(chan Response, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := h.engine.ProcessResponse(context.Background(), id, PatientResponse{Text: "Today"})
			assert.NoError(t, err)
			responses <- resp
		}()
	}
	wg.Wait()
	close(responses)

	complete := 0
	for r := range responses {
		if r.IsComplete {
			complete++
		}
	}
	// One turn opens the emergency check, one escalates, the rest see a finished conversation.
	assert.Equal(t, n-1, complete)
	assert.Equal(t, 1, h.gateway.alertCount())
}

func TestAlertFailureIsDeadLettered(t *testing.T) {
	h := newHarness(t)
	h.gateway.setAlertErr(errDBDown)
	id := h.start(t)
	h.pick(t, id, "Yes")

	resp := h.pick(t, id, "Seizure")
	assert.True(t, resp.IsEmergency, "alert failures never block the patient")
	require.Len(t, h.alerts.DeadLetters(), 1)
	assert.Equal(t, "Emergency: Seizure", h.alerts.DeadLetters()[0].Alert.Message)
}

func TestProgressFormula(t *testing.T) {
	s := &Session{Selected: []symptom.ID{symptom.Nausea, symptom.Fever, symptom.Cough}}
	assert.Equal(t, 20, progress(s))
	s.TopIndex = 1
	assert.Equal(t, 42, progress(s))
	s.TopIndex = 3
	assert.Equal(t, 85, progress(s))
}
