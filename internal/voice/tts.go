// Package voice adapts speech services so patients can hear prompts and
// answer by voice.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultTTSURL  = "https://api.elevenlabs.io/v1/text-to-speech"
	defaultVoiceID = "21m00Tcm4TlvDq8ikWAM"
	defaultModelID = "eleven_multilingual_v2"
)

// ElevenLabsClient synthesizes speech with the ElevenLabs API.
type ElevenLabsClient struct {
	APIKey     string
	BaseURL    string
	httpClient *http.Client
}

func NewElevenLabsClient(apiKey string) *ElevenLabsClient {
	return &ElevenLabsClient{
		APIKey:  apiKey,
		BaseURL: DefaultTTSURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// markdown emphasis would otherwise be read out as "asterisk asterisk".
var speakReplacer = strings.NewReplacer("**", "", "__", "", "🚨", "", "⚠️", "", "💙", "")

// speakable strips display-only markup from a bot message.
func speakable(text string) string {
	return strings.TrimSpace(speakReplacer.Replace(text))
}

func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string, voiceID string) ([]byte, error) {
	if voiceID == "" {
		voiceID = defaultVoiceID
	}
	text = speakable(text)
	if text == "" {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	jsonBody, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: defaultModelID,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(c.BaseURL, "/"), voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("TTS API error: %s - %s", resp.Status, string(body))
	}
	return io.ReadAll(resp.Body)
}
