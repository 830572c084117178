// Package speech holds the clients for the cloud speech-to-text, text
// translation and text-to-speech APIs. All three speak JSON over REST and
// authenticate with the same API key.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultSpeechURL    = "https://speech.googleapis.com/v1"
	defaultTranslateURL = "https://translation.googleapis.com/language/translate/v2"
	defaultTTSURL       = "https://texttospeech.googleapis.com/v1"

	defaultOperationWait = 10 * time.Minute
)

var (
	ErrEmptyText        = errors.New("text cannot be empty")
	ErrEmptyTranslation = errors.New("provider returned empty translation")
	ErrNoAudioContent   = errors.New("synthesis returned no audio content")
	ErrNoTranscript     = errors.New("no transcription results returned")
	ErrOperationTimeout = errors.New("transcription operation timed out")
	ErrNotConfigured    = errors.New("missing speech provider credentials")
)

type Client struct {
	httpClient *http.Client
	apiKey     string

	// Overridable for tests.
	speechURL    string
	translateURL string
	ttsURL       string

	// OperationWait bounds how long Transcribe polls a long-running
	// operation before giving up with ErrOperationTimeout.
	OperationWait time.Duration
}

func NewClient(apiKey string) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: 60 * time.Second},
		apiKey:        apiKey,
		speechURL:     defaultSpeechURL,
		translateURL:  defaultTranslateURL,
		ttsURL:        defaultTTSURL,
		OperationWait: defaultOperationWait,
	}
}

// Configured reports whether provider credentials are present. Handlers
// check this before doing any work so a missing key is a clean 500.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) keyed(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String()
}

// postJSON sends body as JSON and decodes the response into out. Non-2xx
// responses come back as an error carrying the provider's message.
func (c *Client) postJSON(ctx context.Context, rawURL string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.keyed(rawURL), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.keyed(rawURL), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, providerError(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// providerError pulls the message out of a standard Google error envelope,
// falling back to the raw body.
func providerError(data []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return string(data)
}
