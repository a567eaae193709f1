package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"symptom-triage/internal/symptom"
)

type fakeGateway struct {
	mu            sync.Mutex
	conversations []uuid.UUID
	updates       []ConversationUpdate
	alerts        []Alert
	reports       []SymptomReport
	summaries     []SessionSummary
	alertErr      error
}

func (g *fakeGateway) CreateConversation(_ context.Context, id, _ uuid.UUID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.conversations = append(g.conversations, id)
	return nil
}

func (g *fakeGateway) UpdateConversation(_ context.Context, u ConversationUpdate) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updates = append(g.updates, u)
	return nil
}

func (g *fakeGateway) CreateAlert(_ context.Context, a Alert) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.alertErr != nil {
		return g.alertErr
	}
	g.alerts = append(g.alerts, a)
	return nil
}

func (g *fakeGateway) CreateSymptomReport(_ context.Context, r SymptomReport) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reports = append(g.reports, r)
	return nil
}

func (g *fakeGateway) CreateSessionSummary(_ context.Context, s SessionSummary) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.summaries = append(g.summaries, s)
	return nil
}

func (g *fakeGateway) setAlertErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.alertErr = err
}

func (g *fakeGateway) alertCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.alerts)
}

func (g *fakeGateway) phases() []Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []Phase
	for _, u := range g.updates {
		out = append(out, u.Phase)
	}
	return out
}

type fakePatients map[uuid.UUID]Patient

func (f fakePatients) LookupPatient(_ context.Context, id uuid.UUID) (Patient, error) {
	p, ok := f[id]
	if !ok {
		return Patient{}, ErrPatientNotFound
	}
	return p, nil
}

type fakeReports struct {
	mu   sync.Mutex
	sent []CareTeamReport
}

func (f *fakeReports) SendCareTeamReport(_ context.Context, r CareTeamReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, r)
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	alerts []Alert
	err    error
}

func (n *fakeNotifier) NotifyAlert(_ context.Context, a Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	return n.err
}

var errDBDown = errors.New("db down")

// flakyStore fails Put while failPut is set.
type flakyStore struct {
	SessionStore
	failPut bool
}

func (f *flakyStore) Put(ctx context.Context, s *Session) error {
	if f.failPut {
		return errDBDown
	}
	return f.SessionStore.Put(ctx, s)
}

type harness struct {
	engine   *Engine
	gateway  *fakeGateway
	reports  *fakeReports
	alerts   *AlertDispatcher
	patients fakePatients
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := NewMemoryStore(100)
	require.NoError(t, err)

	h := &harness{
		gateway:  &fakeGateway{},
		reports:  &fakeReports{},
		patients: fakePatients{},
	}
	h.alerts = NewAlertDispatcher(h.gateway, NewDeadLetterQueue(), 1, 0)
	h.engine = NewEngine(EngineConfig{
		Store:      store,
		Gateway:    h.gateway,
		Patients:   h.patients,
		Alerts:     h.alerts,
		Reports:    h.reports,
		SessionTTL: time.Hour,
	})
	return h
}

func (h *harness) start(t *testing.T) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := h.engine.StartConversation(context.Background(), id, uuid.New())
	require.NoError(t, err)
	return id
}

func (h *harness) send(t *testing.T, id uuid.UUID, in PatientResponse) Response {
	t.Helper()
	resp, err := h.engine.ProcessResponse(context.Background(), id, in)
	require.NoError(t, err)
	return resp
}

// pick answers with a single option or typed text.
func (h *harness) pick(t *testing.T, id uuid.UUID, answer string) Response {
	t.Helper()
	return h.send(t, id, PatientResponse{SelectedOption: answer})
}

func (h *harness) multi(t *testing.T, id uuid.UUID, answers ...string) Response {
	t.Helper()
	return h.send(t, id, PatientResponse{SelectedOptions: answers})
}

// toSelection walks a fresh conversation through disclaimer and context.
func (h *harness) toSelection(t *testing.T, id uuid.UUID) {
	t.Helper()
	h.pick(t, id, "No")
	h.pick(t, id, "Yesterday")
	resp := h.pick(t, id, "Next week")
	require.Equal(t, PhaseSymptomSelection, resp.Phase)
}

func (h *harness) session(t *testing.T, id uuid.UUID) *Session {
	t.Helper()
	s, err := h.engine.store.Get(context.Background(), id)
	require.NoError(t, err)
	return s
}

func reportFor(reports []SymptomReport, id symptom.ID) (SymptomReport, bool) {
	for _, r := range reports {
		if r.SymptomID == id {
			return r, true
		}
	}
	return SymptomReport{}, false
}
