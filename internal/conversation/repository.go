package conversation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/lib/pq"
)

// Gateway persists the records a conversation produces.
type Gateway interface {
	CreateConversation(ctx context.Context, id, patientID uuid.UUID) error
	UpdateConversation(ctx context.Context, u ConversationUpdate) error
	CreateAlert(ctx context.Context, a Alert) error
	CreateSymptomReport(ctx context.Context, r SymptomReport) error
	CreateSessionSummary(ctx context.Context, s SessionSummary) error
}

type PatientDirectory interface {
	LookupPatient(ctx context.Context, patientID uuid.UUID) (Patient, error)
}

// Repository is the Postgres-backed store for both.
type Repository interface {
	Gateway
	PatientDirectory
}

var ErrPatientNotFound = errors.New("patient not found")

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) CreateConversation(ctx context.Context, id, patientID uuid.UUID) error {
	query := `INSERT INTO conversations (id, patient_id, phase, created_at) VALUES ($1, $2, $3, NOW())`
	_, err := r.db.ExecContext(ctx, query, id, patientID, PhaseDisclaimer)
	return err
}

func (r *postgresRepo) UpdateConversation(ctx context.Context, u ConversationUpdate) error {
	var triage sql.NullString
	if u.Triage != nil {
		triage = sql.NullString{String: string(*u.Triage), Valid: true}
	}
	query := `
		UPDATE conversations SET
			phase = $2,
			is_emergency = $3,
			completed_at = COALESCE($4, completed_at),
			triage_level = COALESCE($5, triage_level)
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, u.ID, u.Phase, u.Emergency, u.CompletedAt, triage)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("conversation %s not found", u.ID)
	}
	return nil
}

func (r *postgresRepo) CreateAlert(ctx context.Context, a Alert) error {
	query := `
		INSERT INTO alerts (id, patient_id, conversation_id, triage_level, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.PatientID, a.ConversationID, a.Triage, a.Message, a.CreatedAt)
	return err
}

func (r *postgresRepo) CreateSymptomReport(ctx context.Context, rep SymptomReport) error {
	query := `
		INSERT INTO symptom_reports
			(conversation_id, symptom_id, severity, duration, triage_level, notes, medications_tried, branched_from)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''))
	`
	_, err := r.db.ExecContext(ctx, query,
		rep.ConversationID, rep.SymptomID, rep.Severity, rep.Duration, rep.Triage,
		rep.Notes, rep.MedicationsTried, rep.BranchedFrom)
	return err
}

// CreateSymptomReports writes every report, continuing past failures, and
// returns all errors together.
func CreateSymptomReports(ctx context.Context, g Gateway, reports []SymptomReport) error {
	var result *multierror.Error
	for _, rep := range reports {
		if err := g.CreateSymptomReport(ctx, rep); err != nil {
			result = multierror.Append(result, fmt.Errorf("symptom report %s: %w", rep.SymptomID, err))
		}
	}
	return result.ErrorOrNil()
}

func (r *postgresRepo) CreateSessionSummary(ctx context.Context, s SessionSummary) error {
	query := `
		INSERT INTO session_summaries
			(conversation_id, patient_id, summary_text, patient_added_notes, recommendations, education_links, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NOW())
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ConversationID, s.PatientID, s.Text, s.PatientNotes,
		pq.Array(s.Recommendations), pq.Array(s.EducationLinks))
	return err
}

func (r *postgresRepo) LookupPatient(ctx context.Context, patientID uuid.UUID) (Patient, error) {
	query := `
		SELECT p.first_name, (SELECT COUNT(*) FROM conversations c WHERE c.patient_id = p.id)
		FROM patients p
		WHERE p.id = $1
	`
	p := Patient{ID: patientID}
	err := r.db.QueryRowContext(ctx, query, patientID).Scan(&p.FirstName, &p.ConversationCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Patient{}, ErrPatientNotFound
		}
		return Patient{}, err
	}
	return p, nil
}
