package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"podcast-polyglot/internal/db"
	"podcast-polyglot/internal/handlers"
	"podcast-polyglot/internal/middleware"
	"podcast-polyglot/internal/speech"
	"podcast-polyglot/internal/storage"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	db.InitDB()

	store, err := storage.Open(storage.ConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to open object store: %v", err)
	}

	speechClient := speech.NewClient(os.Getenv("GOOGLE_API_KEY"))
	if !speechClient.Configured() {
		log.Println("GOOGLE_API_KEY is not set; provider endpoints will fail")
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer client.Close()

	h := handlers.New(client, store, speechClient)
	rl := middleware.NewRateLimiterMiddleware(rate.Limit(5), 10)

	r := mux.NewRouter()
	r.HandleFunc("/rss/{uuid}", h.GetRSSFeed).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware, rl.Middleware)
	api.HandleFunc("/podcasts", h.PostPodcast).Methods(http.MethodPost)
	api.HandleFunc("/podcasts", h.GetPodcasts).Methods(http.MethodGet)
	api.HandleFunc("/podcasts/{id}", h.GetPodcast).Methods(http.MethodGet)
	api.HandleFunc("/podcasts/{id}", h.DeletePodcast).Methods(http.MethodDelete)
	api.HandleFunc("/podcasts/{id}/transcribe", h.PostTranscribe).Methods(http.MethodPost)
	api.HandleFunc("/podcasts/{id}/translate", h.PostTranslate).Methods(http.MethodPost)
	api.HandleFunc("/jobs/{id}", h.GetTranslationJob).Methods(http.MethodGet)
	api.HandleFunc("/voices", h.GetVoices).Methods(http.MethodGet)
	api.HandleFunc("/voices/preview", h.PostVoicePreview).Methods(http.MethodPost)
	api.HandleFunc("/episodes/{id}/download", h.GetEpisodeDownload).Methods(http.MethodGet)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on :%s (commit: %s)", port, CommitSHA)
	if err := http.ListenAndServe(":"+port, middleware.CORS(r)); err != nil {
		log.Fatal(err)
	}
}
