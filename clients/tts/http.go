package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAPIHost = "https://api.elevenlabs.io/v1"
	defaultVoiceID = "21m00Tcm4TlvDq8ikWAM"
	defaultModel   = "eleven_multilingual_v2"

	// the service only accepts speeds in this range
	minSpeed = 0.7
	maxSpeed = 1.2
)

type clientImpl struct {
	apiHost    string
	apiKey     string
	voiceID    string
	model      string
	httpClient *http.Client
}

type Config struct {
	APIHost string
	APIKey  string
	VoiceID string
	Model   string
	Timeout time.Duration
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Speed           float64 `json:"speed"`
}

func NewClient(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, errors.New("missing parameter: cfg")
	}

	if cfg.APIKey == "" {
		return nil, errors.New("missing parameter: cfg.APIKey")
	}

	client := &clientImpl{
		apiHost:    cfg.APIHost,
		apiKey:     cfg.APIKey,
		voiceID:    cfg.VoiceID,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}

	if client.apiHost == "" {
		client.apiHost = defaultAPIHost
	}

	if client.voiceID == "" {
		client.voiceID = defaultVoiceID
	}

	if client.model == "" {
		client.model = defaultModel
	}

	return client, nil
}

func (client *clientImpl) Synthesize(ctx context.Context, text string, speed float64) ([]byte, error) {
	url := fmt.Sprintf("%s/text-to-speech/%s?output_format=pcm_%d", client.apiHost, client.voiceID, SampleRate)

	body, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: client.model,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			Speed:           clampSpeed(speed),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", client.apiKey)

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)

		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(msg))
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return pcm, nil
}

func clampSpeed(speed float64) float64 {
	switch {
	case speed <= 0:
		return 1
	case speed < minSpeed:
		return minSpeed
	case speed > maxSpeed:
		return maxSpeed
	default:
		return speed
	}
}
