package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"symptom-triage/internal/symptom"
)

// PGNotifier publishes persisted alerts on a Postgres NOTIFY channel so a
// care-team dashboard can LISTEN for them.
type PGNotifier struct {
	DB      *sql.DB
	Channel string
}

func NewPGNotifier(db *sql.DB, channel string) *PGNotifier {
	return &PGNotifier{DB: db, Channel: channel}
}

type alertPayload struct {
	AlertID        string `json:"alert_id"`
	ConversationID string `json:"conversation_id"`
	PatientID      string `json:"patient_id"`
	Triage         string `json:"triage_level"`
}

func (n *PGNotifier) NotifyAlert(ctx context.Context, a Alert) error {
	payload, err := json.Marshal(alertPayload{
		AlertID:        a.ID.String(),
		ConversationID: a.ConversationID.String(),
		PatientID:      a.PatientID.String(),
		Triage:         string(a.Triage),
	})
	if err != nil {
		return err
	}
	// NOTIFY takes no bind parameters, so the payload is quoted inline.
	stmt := fmt.Sprintf("NOTIFY %s, %s", pq.QuoteIdentifier(n.Channel), pq.QuoteLiteral(string(payload)))
	_, err = n.DB.ExecContext(ctx, stmt)
	return err
}

type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// TelegramNotifier posts alert text to the care-team chat.
type TelegramNotifier struct {
	sender MessageSender
	chatID int64
}

func NewTelegramNotifier(sender MessageSender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatID: chatID}
}

func (t *TelegramNotifier) NotifyAlert(ctx context.Context, a Alert) error {
	return t.sender.SendMessage(ctx, t.chatID, formatAlert(a))
}

func formatAlert(a Alert) string {
	var b strings.Builder
	switch a.Triage {
	case symptom.TriageCall911:
		b.WriteString("🚨 CALL 911")
	case symptom.TriageUrgent:
		b.WriteString("🔴 URGENT")
	default:
		b.WriteString("🟡 Care team review")
	}
	fmt.Fprintf(&b, "\nPatient: %s\nConversation: %s\n\n%s", a.PatientID, a.ConversationID, a.Message)
	return b.String()
}
