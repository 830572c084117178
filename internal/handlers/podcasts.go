package handlers

import (
	"database/sql"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"

	"podcast-polyglot/internal/db"
	"podcast-polyglot/internal/models"
	"podcast-polyglot/internal/storage"
	"podcast-polyglot/pkg/tasks"
)

const maxUploadBytes = 100 << 20 // 100 MB

func userFrom(r *http.Request) *models.User {
	return r.Context().Value(models.UserContextKey).(*models.User)
}

// PostPodcast uploads the original audio to storage and creates the podcast
// record in 'uploaded' state. Transcription is a separate, explicit step.
func (h *Handlers) PostPodcast(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid upload form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	var description *string
	if d := strings.TrimSpace(r.FormValue("description")); d != "" {
		description = &d
	}

	originalLanguage := r.FormValue("original_language")
	if originalLanguage == "" {
		originalLanguage = "en-US"
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "audio/") {
		respondError(w, http.StatusBadRequest, "File must be an audio file")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read audio file")
		return
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".mp3"
	}

	podcastID := uuid.NewString()
	key := storage.OriginalKey(user.ID, podcastID, ext)
	if err := h.store.Upload(key, data, contentType); err != nil {
		log.Printf("Error uploading audio for user %s: %v", user.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to store audio file")
		return
	}

	podcast, err := db.CreatePodcast(podcastID, user.ID, title, description, key, int64(len(data)), originalLanguage)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create podcast")
		return
	}

	respondJSON(w, http.StatusCreated, podcast)
}

func (h *Handlers) GetPodcasts(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	podcasts, err := db.GetPodcastsByUserID(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get podcasts")
		return
	}
	if podcasts == nil {
		podcasts = []models.Podcast{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"podcasts": podcasts})
}

func (h *Handlers) GetPodcast(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	podcastID := mux.Vars(r)["id"]

	podcast, err := db.GetPodcastForUser(podcastID, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Podcast not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to get podcast")
		return
	}

	episodes, err := db.GetEpisodesByPodcastID(podcast.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get episodes")
		return
	}
	if episodes == nil {
		episodes = []models.TranslatedEpisode{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"podcast":  podcast,
		"episodes": episodes,
	})
}

// PostTranscribe queues transcription for a podcast. Allowed from any state
// except an in-flight transcription; re-running overwrites the transcript.
func (h *Handlers) PostTranscribe(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	podcastID := mux.Vars(r)["id"]

	podcast, err := db.GetPodcastForUser(podcastID, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Podcast not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to get podcast")
		return
	}

	if podcast.Status == db.StatusTranscribing {
		respondError(w, http.StatusConflict, "Transcription is already running")
		return
	}

	task, err := tasks.NewTranscribePodcastTask(podcast.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}
	if _, err := h.asynqClient.Enqueue(task, asynq.Queue("high")); err != nil {
		log.Printf("Error enqueuing transcription for podcast %s: %v", podcast.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to queue transcription")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// DeletePodcast removes the podcast, its translated episodes and their audio
// objects. Object removal is best-effort; failures come back as warnings and
// the record delete proceeds regardless.
func (h *Handlers) DeletePodcast(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	podcastID := mux.Vars(r)["id"]

	podcast, err := db.GetPodcastForUser(podcastID, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Podcast not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to get podcast")
		return
	}

	episodes, err := db.GetEpisodesByPodcastID(podcast.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get episodes")
		return
	}

	keys := make([]string, 0, len(episodes)+1)
	for _, episode := range episodes {
		keys = append(keys, episode.AudioStoragePath)
	}
	keys = append(keys, podcast.AudioPath)

	warnings := []string{}
	for _, removeErr := range h.store.Remove(keys) {
		warnings = append(warnings, removeErr.Error())
	}

	if err := db.DeleteEpisodesByPodcastID(podcast.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete episodes")
		return
	}
	if err := db.DeleteJobsByPodcastID(podcast.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete jobs")
		return
	}
	if err := db.DeletePodcast(podcast.ID, user.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete podcast")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"deleted":  true,
		"warnings": warnings,
	})
}
