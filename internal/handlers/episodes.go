package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"podcast-polyglot/internal/db"
)

// GetEpisodeDownload returns a time-limited signed URL for a translated
// episode's audio object.
func (h *Handlers) GetEpisodeDownload(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	episodeID := mux.Vars(r)["id"]

	episode, err := db.GetEpisodeForUser(episodeID, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Episode not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to get episode")
		return
	}

	url, err := h.store.Presign(episode.AudioStoragePath)
	if err != nil {
		log.Printf("Error presigning %s: %v", episode.AudioStoragePath, err)
		respondError(w, http.StatusInternalServerError, "Failed to create download URL")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"url":       url,
		"file_size": episode.FileSize,
	})
}
