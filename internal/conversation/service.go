package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrVoiceDisabled is returned when a voice operation has no backend configured.
var ErrVoiceDisabled = errors.New("voice service not configured")

// Transcriber turns recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer reads text aloud.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voiceID string) ([]byte, error)
}

type Service interface {
	StartConversation(ctx context.Context, patientID uuid.UUID) (uuid.UUID, Response, error)
	ProcessResponse(ctx context.Context, conversationID uuid.UUID, in PatientResponse) (Response, error)
	Snapshot(ctx context.Context, conversationID uuid.UUID) (Snapshot, error)
	// ProcessAudio transcribes a spoken answer and handles it as typed text.
	ProcessAudio(ctx context.Context, conversationID uuid.UUID, audio []byte) (string, Response, error)
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
	DeadLetters() []FailedAlert
	RedriveAlerts(ctx context.Context) (int, error)
}

type service struct {
	engine  *Engine
	gateway Gateway
	alerts  *AlertDispatcher
	stt     Transcriber
	tts     Synthesizer
}

// NewService wires the engine to persistence and the optional voice backends.
// stt and tts may be nil.
func NewService(engine *Engine, gw Gateway, alerts *AlertDispatcher, stt Transcriber, tts Synthesizer) Service {
	return &service{
		engine:  engine,
		gateway: gw,
		alerts:  alerts,
		stt:     stt,
		tts:     tts,
	}
}

func (s *service) StartConversation(ctx context.Context, patientID uuid.UUID) (uuid.UUID, Response, error) {
	id := uuid.New()
	if err := s.gateway.CreateConversation(ctx, id, patientID); err != nil {
		return uuid.Nil, Response{}, fmt.Errorf("create conversation: %w", err)
	}
	resp, err := s.engine.StartConversation(ctx, id, patientID)
	if err != nil {
		return uuid.Nil, Response{}, err
	}
	return id, resp, nil
}

func (s *service) ProcessResponse(ctx context.Context, conversationID uuid.UUID, in PatientResponse) (Response, error) {
	return s.engine.ProcessResponse(ctx, conversationID, in)
}

func (s *service) Snapshot(ctx context.Context, conversationID uuid.UUID) (Snapshot, error) {
	return s.engine.Snapshot(ctx, conversationID)
}

func (s *service) ProcessAudio(ctx context.Context, conversationID uuid.UUID, audio []byte) (string, Response, error) {
	if s.stt == nil {
		return "", Response{}, ErrVoiceDisabled
	}
	text, err := s.stt.Transcribe(ctx, audio)
	if err != nil {
		return "", Response{}, fmt.Errorf("transcribe: %w", err)
	}
	text = strings.TrimSpace(text)
	resp, err := s.engine.ProcessResponse(ctx, conversationID, PatientResponse{Text: text})
	if err != nil {
		return text, Response{}, err
	}
	return text, resp, nil
}

func (s *service) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	if s.tts == nil {
		return nil, ErrVoiceDisabled
	}
	// Empty voice id selects the synthesizer's default voice.
	return s.tts.Synthesize(ctx, text, "")
}

func (s *service) DeadLetters() []FailedAlert {
	return s.alerts.DeadLetters()
}

func (s *service) RedriveAlerts(ctx context.Context) (int, error) {
	return s.alerts.Redrive(ctx)
}
