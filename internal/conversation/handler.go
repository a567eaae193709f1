package conversation

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxAudioUpload = 10 << 20

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type StartConversationRequest struct {
	PatientID string `json:"patient_id"`
}

type StartConversationResponse struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	Response       Response  `json:"response"`
}

type AudioResponse struct {
	Text        string   `json:"text"`
	Response    Response `json:"response"`
	AudioBase64 string   `json:"audio_base64,omitempty"`
}

type TTSRequest struct {
	Text string `json:"text"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func conversationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// writeEngineError maps engine errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "Conversation not found", http.StatusNotFound)
	case errors.Is(err, ErrVoiceDisabled):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.Printf("Request failed: %v", err)
		http.Error(w, "Processing failed", http.StatusInternalServerError)
	}
}

func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	var req StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	pid, err := uuid.Parse(req.PatientID)
	if err != nil {
		http.Error(w, "Invalid patient ID", http.StatusBadRequest)
		return
	}

	id, resp, err := h.svc.StartConversation(r.Context(), pid)
	if err != nil {
		log.Printf("Failed to start conversation for patient %s: %v", pid, err)
		http.Error(w, "Failed to start conversation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, StartConversationResponse{ConversationID: id, Response: resp})
}

func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationID(w, r)
	if !ok {
		return
	}
	var in PatientResponse
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	resp, err := h.svc.ProcessResponse(r.Context(), id, in)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationID(w, r)
	if !ok {
		return
	}
	snap, err := h.svc.Snapshot(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) HandleAudioUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := conversationID(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "Error retrieving audio file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		http.Error(w, "Failed to read audio file", http.StatusInternalServerError)
		return
	}

	text, resp, err := h.svc.ProcessAudio(r.Context(), id, buf.Bytes())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	// Speech for the reply is best-effort; the text response stands on its own.
	out := AudioResponse{Text: text, Response: resp}
	if audio, err := h.svc.SynthesizeSpeech(r.Context(), resp.Message); err == nil {
		out.AudioBase64 = base64.StdEncoding.EncodeToString(audio)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleTTS(w http.ResponseWriter, r *http.Request) {
	var req TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	audio, err := h.svc.SynthesizeSpeech(r.Context(), req.Text)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Write(audio)
}

func (h *Handler) ListDeadLetters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.DeadLetters())
}

func (h *Handler) RetryDeadLetters(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.RedriveAlerts(r.Context())
	if err != nil {
		log.Printf("Dead-letter redrive stopped: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"persisted": n,
		"remaining": len(h.svc.DeadLetters()),
	})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/conversations", h.StartConversation)
	r.Get("/conversations/{id}", h.GetConversation)
	r.Post("/conversations/{id}/messages", h.PostMessage)
	r.Post("/conversations/{id}/audio", h.HandleAudioUpload)
	r.Post("/tts", h.HandleTTS)
	r.Get("/alerts/dead-letter", h.ListDeadLetters)
	r.Post("/alerts/dead-letter/retry", h.RetryDeadLetters)
}
