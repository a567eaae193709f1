// Package report renders the care-team PDF for a finished check-in and
// delivers it to the care-team chat.
package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/signintech/gopdf"

	"symptom-triage/internal/conversation"
	"symptom-triage/internal/summary"
	"symptom-triage/internal/symptom"
)

type DocumentSender interface {
	SendDocument(ctx context.Context, chatID int64, fileData []byte, fileName string) error
}

var defaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

type Service struct {
	sender    DocumentSender
	chatID    int64
	FontPaths []string
}

func NewService(sender DocumentSender, chatID int64) *Service {
	return &Service{
		sender:    sender,
		chatID:    chatID,
		FontPaths: defaultFontPaths,
	}
}

// line is one row of the report; size is the font size in points.
type line struct {
	size float64
	text string
}

func heading(text string) line { return line{size: 14, text: text} }
func body(text string) line    { return line{size: 11, text: text} }

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// buildLines lays out the report content independent of PDF rendering.
func buildLines(r conversation.CareTeamReport) []line {
	status := "Completed"
	if r.Emergency {
		status = "EMERGENCY"
	}
	lines := []line{
		{size: 20, text: "Symptom Check-in Report"},
		body(fmt.Sprintf("Date: %s", r.GeneratedAt.Format("2006-01-02 15:04"))),
		body(fmt.Sprintf("Patient: %s (%s)", r.PatientName, r.PatientID)),
		body(fmt.Sprintf("Conversation: %s", r.ConversationID)),
		body(fmt.Sprintf("Status: %s", status)),
		body(fmt.Sprintf("Overall triage: %s", summary.TriageLabel(r.Summary.OverallTriage))),
		body(fmt.Sprintf("Last chemotherapy: %s", orDash(r.Context.LastChemo))),
		body(fmt.Sprintf("Next visit: %s", orDash(r.Context.NextVisit))),
		heading("Reported symptoms:"),
	}

	if len(r.Symptoms) == 0 {
		lines = append(lines, body("- No symptoms reported."))
	}
	for _, s := range r.Symptoms {
		parts := []string{fmt.Sprintf("- %s [%s]", symptom.Name(s.SymptomID), summary.TriageLabel(s.Triage))}
		if s.Severity != "" {
			parts = append(parts, "severity "+strings.ToLower(string(s.Severity)))
		}
		if s.Duration != "" {
			parts = append(parts, "duration "+s.Duration)
		}
		if s.MedicationsTried != "" {
			parts = append(parts, "tried "+s.MedicationsTried)
		}
		if s.BranchedFrom != "" {
			parts = append(parts, "via "+symptom.Name(s.BranchedFrom))
		}
		lines = append(lines, body(strings.Join(parts, ", ")))
		if s.Notes != "" {
			lines = append(lines, body("  "+s.Notes))
		}
	}

	if len(r.Summary.Recommendations) > 0 {
		lines = append(lines, heading("Recommendations:"))
		for _, rec := range r.Summary.Recommendations {
			lines = append(lines, body("- "+rec))
		}
	}
	if r.Notes != "" {
		lines = append(lines, heading("Patient notes:"), body(r.Notes))
	}
	return lines
}

func (s *Service) render(lines []line) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	loaded := false
	for _, path := range s.FontPaths {
		if fontErr = pdf.AddTTFFont("DejaVu", path); fontErr == nil {
			loaded = true
			break
		}
	}
	if !loaded {
		return nil, fmt.Errorf("failed to load font for PDF. Please ensure ttf-dejavu is installed. Last error: %w", fontErr)
	}

	for _, l := range lines {
		if err := pdf.SetFont("DejaVu", "", l.size); err != nil {
			return nil, err
		}
		if l.size > 11 {
			pdf.Br(8)
		}
		wrapped, err := pdf.SplitText(l.text, 500)
		if err != nil {
			wrapped = []string{l.text}
		}
		for _, w := range wrapped {
			if pdf.GetY() > 800 {
				pdf.AddPage()
			}
			pdf.Cell(nil, w)
			pdf.Br(l.size + 4)
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// SendCareTeamReport renders r and sends it to the care-team chat. It is a
// no-op when no chat is configured.
func (s *Service) SendCareTeamReport(ctx context.Context, r conversation.CareTeamReport) error {
	if s.chatID == 0 {
		return nil
	}
	data, err := s.render(buildLines(r))
	if err != nil {
		return err
	}

	prefix := "report"
	if r.Emergency {
		prefix = "emergency"
	}
	fileName := fmt.Sprintf("%s_%s.pdf", prefix, r.ConversationID)
	if err := s.sender.SendDocument(ctx, s.chatID, data, fileName); err != nil {
		return fmt.Errorf("send report %s: %w", fileName, err)
	}
	return nil
}
