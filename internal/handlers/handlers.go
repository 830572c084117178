// Package handlers holds the JSON HTTP API: podcast management, the
// translation pipeline endpoints, voice listing/preview, and the RSS feed.
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"podcast-polyglot/internal/speech"
	"podcast-polyglot/pkg/tasks"
)

// ObjectStore is the slice of the storage gateway the API needs.
type ObjectStore interface {
	Upload(key string, data []byte, contentType string) error
	Presign(key string) (string, error)
	Remove(keys []string) []error
}

// SpeechProvider is the slice of the speech client the API calls directly
// (voice listing and previews; the pipeline itself runs in the worker).
type SpeechProvider interface {
	Configured() bool
	ListVoices(ctx context.Context, languageCode string) ([]speech.Voice, error)
	Synthesize(ctx context.Context, text, languageCode, voiceName string) ([]byte, error)
}

type Handlers struct {
	asynqClient tasks.TaskEnqueuer
	store       ObjectStore
	speech      SpeechProvider
}

func New(asynqClient tasks.TaskEnqueuer, store ObjectStore, speechProvider SpeechProvider) *Handlers {
	return &Handlers{
		asynqClient: asynqClient,
		store:       store,
		speech:      speechProvider,
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
