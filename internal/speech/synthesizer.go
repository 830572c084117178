package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate"`
		Pitch         float64 `json:"pitch"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize renders text as MP3 audio with the given voice and returns the
// raw bytes.
func (c *Client) Synthesize(ctx context.Context, text, languageCode, voiceName string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	reqBody := synthesizeRequest{}
	reqBody.Input.Text = text
	reqBody.Voice.LanguageCode = languageCode
	reqBody.Voice.Name = voiceName
	reqBody.AudioConfig.AudioEncoding = "MP3"
	reqBody.AudioConfig.SpeakingRate = 1.0
	reqBody.AudioConfig.Pitch = 0.0

	var resp synthesizeResponse
	if err := c.postJSON(ctx, c.ttsURL+"/text:synthesize", reqBody, &resp); err != nil {
		return nil, fmt.Errorf("synthesize %s voice %s: %w", languageCode, voiceName, err)
	}

	if resp.AudioContent == "" {
		return nil, ErrNoAudioContent
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}
	return audio, nil
}
