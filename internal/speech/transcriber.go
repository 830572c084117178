package speech

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type recognitionConfig struct {
	Encoding                   string `json:"encoding"`
	SampleRateHertz            int    `json:"sampleRateHertz"`
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
}

type recognitionAudio struct {
	URI string `json:"uri"`
}

type longRunningRecognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  recognitionAudio  `json:"audio"`
}

type operation struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
	Response *struct {
		Results []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"results"`
	} `json:"response"`
}

// Transcribe submits the audio at audioURI for long-running recognition and
// polls the returned operation until it finishes. It returns the joined
// transcript and the language code the provider was asked to use.
func (c *Client) Transcribe(ctx context.Context, audioURI, languageCode string) (string, string, error) {
	if !c.Configured() {
		return "", "", ErrNotConfigured
	}
	if languageCode == "" {
		languageCode = "en-US"
	}

	reqBody := longRunningRecognizeRequest{
		Config: recognitionConfig{
			Encoding:                   "MP3",
			SampleRateHertz:            16000,
			LanguageCode:               languageCode,
			EnableAutomaticPunctuation: true,
		},
		Audio: recognitionAudio{URI: audioURI},
	}

	var op operation
	err := c.postJSON(ctx, c.speechURL+"/speech:longrunningrecognize", reqBody, &op)
	if err != nil {
		return "", "", fmt.Errorf("start recognition: %w", err)
	}

	op, err = c.awaitOperation(ctx, op)
	if err != nil {
		return "", "", err
	}

	if op.Error != nil {
		return "", "", fmt.Errorf("recognition failed: %s", op.Error.Message)
	}
	if op.Response == nil || len(op.Response.Results) == 0 {
		return "", "", ErrNoTranscript
	}

	var parts []string
	for _, result := range op.Response.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	if len(parts) == 0 {
		return "", "", ErrNoTranscript
	}

	return strings.Join(parts, "\n"), languageCode, nil
}

// awaitOperation polls the operation with a doubling backoff until it is
// done, the context is cancelled, or OperationWait elapses.
func (c *Client) awaitOperation(ctx context.Context, op operation) (operation, error) {
	if op.Done {
		return op, nil
	}

	deadline := time.Now().Add(c.OperationWait)
	delay := time.Second

	for {
		select {
		case <-ctx.Done():
			return op, ctx.Err()
		case <-time.After(delay):
		}

		if time.Now().After(deadline) {
			return op, ErrOperationTimeout
		}

		var polled operation
		err := c.getJSON(ctx, c.speechURL+"/operations/"+op.Name, &polled)
		if err != nil {
			return op, fmt.Errorf("poll operation %s: %w", op.Name, err)
		}
		if polled.Done {
			return polled, nil
		}

		delay *= 2
		if delay > 15*time.Second {
			delay = 15 * time.Second
		}
	}
}
