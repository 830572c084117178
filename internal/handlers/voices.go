package handlers

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

const maxPreviewChars = 250

func (h *Handlers) GetVoices(w http.ResponseWriter, r *http.Request) {
	languageCode := r.URL.Query().Get("language_code")
	if languageCode == "" {
		respondError(w, http.StatusBadRequest, "language_code is required")
		return
	}

	if !h.speech.Configured() {
		respondError(w, http.StatusInternalServerError, "Missing speech provider credentials")
		return
	}

	voices, err := h.speech.ListVoices(r.Context(), languageCode)
	if err != nil {
		log.Printf("Error listing voices for %s: %v", languageCode, err)
		respondError(w, http.StatusInternalServerError, "Failed to list voices: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"voices": voices})
}

type previewRequest struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code"`
	VoiceName    string `json:"voice_name"`
}

// PostVoicePreview synthesizes a short sample so the voice picker can play
// voices before a batch is started.
func (h *Handlers) PostVoicePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" || req.LanguageCode == "" || req.VoiceName == "" {
		respondError(w, http.StatusBadRequest, "text, language_code and voice_name are required")
		return
	}
	if len(req.Text) > maxPreviewChars {
		respondError(w, http.StatusBadRequest, "Text for preview is too long (max 250 characters)")
		return
	}

	if !h.speech.Configured() {
		respondError(w, http.StatusInternalServerError, "Missing speech provider credentials")
		return
	}

	audio, err := h.speech.Synthesize(r.Context(), req.Text, req.LanguageCode, req.VoiceName)
	if err != nil {
		log.Printf("Error synthesizing preview for voice %s: %v", req.VoiceName, err)
		respondError(w, http.StatusInternalServerError, "Failed to synthesize preview: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"audio_content": base64.StdEncoding.EncodeToString(audio),
		"language_code": req.LanguageCode,
	})
}
