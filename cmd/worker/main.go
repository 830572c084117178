package main

import (
	"log"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"podcast-polyglot/internal/db"
	"podcast-polyglot/internal/notify"
	"podcast-polyglot/internal/speech"
	"podcast-polyglot/internal/storage"
	"podcast-polyglot/internal/worker"
	"podcast-polyglot/pkg/tasks"
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

	var notifier notify.Notifier
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		tg, err := notify.NewTelegram(token)
		if err != nil {
			log.Printf("Telegram notifications disabled: %v", err)
		} else {
			notifier = tg
		}
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			// One transcription and one batch may run side by side;
			// keeping this low is gentle on provider quotas.
			Concurrency: 2,
			Queues: map[string]int{
				"high":    2,
				"default": 1,
			},
			// Custom retry delay function for exponential backoff
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				delay := 5 * time.Minute
				maxDelay := 24 * time.Hour

				// Exponential backoff: 5min, 10min, 20min, 40min, 80min, etc.
				for i := 0; i < n; i++ {
					delay *= 2
					if delay > maxDelay {
						delay = maxDelay
						break
					}
				}

				log.Printf("Task %s failed %d times, retrying in %v", task.Type(), n+1, delay)
				return delay
			},
		},
	)

	mux := asynq.NewServeMux()
	taskHandler := worker.NewTaskHandler(speechClient, speechClient, speechClient, store, notifier)

	mux.HandleFunc(tasks.TypeTranscribePodcast, taskHandler.HandleTranscribePodcastTask)
	mux.HandleFunc(tasks.TypeTranslateBatch, taskHandler.HandleTranslateBatchTask)
	mux.HandleFunc(tasks.TypeReapStale, taskHandler.HandleReapStaleTask)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
