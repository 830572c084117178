package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"podcast-polyglot/internal/db"
	"podcast-polyglot/internal/feed"
)

// GetRSSFeed serves the per-user feed of completed translated episodes.
// The feed UUID is the only credential; podcast clients cannot send bearer
// tokens.
func (h *Handlers) GetRSSFeed(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	uuid := vars["uuid"]

	user, err := db.GetUserByRSSUUID(uuid)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	episodes, err := db.GetCompletedEpisodesByUserID(user.ID)
	if err != nil {
		log.Printf("Error getting episodes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rss, err := feed.GenerateRSS(user, episodes, h.store.Presign, r)
	if err != nil {
		log.Printf("Error generating RSS: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Write([]byte(rss))
}
