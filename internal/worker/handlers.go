package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"podcast-polyglot/internal/db"
	"podcast-polyglot/internal/notify"
	"podcast-polyglot/internal/pipeline"
	"podcast-polyglot/internal/storage"
	"podcast-polyglot/pkg/tasks"
)

// staleTranscriptionAge bounds how long a podcast may sit in 'transcribing'
// before the reaper marks it failed.
const staleTranscriptionAge = 2 * time.Hour

type Transcriber interface {
	Transcribe(ctx context.Context, audioURI, languageCode string) (transcript, languageUsed string, err error)
}

type ObjectStore interface {
	Upload(key string, data []byte, contentType string) error
	PublicURL(key string) string
}

type TaskHandler struct {
	transcriber Transcriber
	translator  pipeline.Translator
	synthesizer pipeline.Synthesizer
	store       ObjectStore
	notifier    notify.Notifier
}

func NewTaskHandler(transcriber Transcriber, translator pipeline.Translator, synthesizer pipeline.Synthesizer, store ObjectStore, notifier notify.Notifier) *TaskHandler {
	return &TaskHandler{
		transcriber: transcriber,
		translator:  translator,
		synthesizer: synthesizer,
		store:       store,
		notifier:    notifier,
	}
}

func (h *TaskHandler) HandleTranscribePodcastTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.TranscribePodcastTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	log.Printf("Transcribing podcast: %s", p.PodcastID)

	podcast, err := db.GetPodcastByID(p.PodcastID)
	if err != nil {
		return fmt.Errorf("failed to get podcast by id: %w", err)
	}

	if err := db.UpdatePodcastStatus(podcast.ID, db.StatusTranscribing); err != nil {
		return fmt.Errorf("failed to update podcast status to transcribing: %w", err)
	}

	audioURL := h.store.PublicURL(podcast.AudioPath)
	transcript, languageUsed, err := h.transcriber.Transcribe(ctx, audioURL, podcast.OriginalLanguage)
	if err != nil {
		log.Printf("Transcription failed for podcast %s: %v", podcast.ID, err)
		if dbErr := db.MarkTranscriptionFailed(podcast.ID); dbErr != nil {
			log.Printf("Failed to mark podcast %s transcription_failed: %v", podcast.ID, dbErr)
		}
		h.notifyUser(podcast.UserID, fmt.Sprintf("Transcription of \"%s\" failed.", podcast.Title))
		return fmt.Errorf("transcription failed: %w", err)
	}

	if err := db.UpdatePodcastTranscribed(podcast.ID, transcript, languageUsed); err != nil {
		return fmt.Errorf("failed to store transcript: %w", err)
	}

	log.Printf("Successfully transcribed podcast %s (%d chars)", podcast.ID, len(transcript))
	h.notifyUser(podcast.UserID, fmt.Sprintf("Transcription of \"%s\" is ready. You can start translating now.", podcast.Title))

	return nil
}

// episodeRecorder persists one synthesized translation: upload to the
// deterministic object key, then record the episode row. A duplicate row is
// treated as already recorded.
type episodeRecorder struct {
	store     ObjectStore
	podcastID string
	userID    string
}

func (r episodeRecorder) Record(ctx context.Context, rec pipeline.Recording) error {
	key := storage.TranslationKey(r.userID, r.podcastID, rec.LanguageCode, rec.VoiceName)
	if err := r.store.Upload(key, rec.Audio, "audio/mpeg"); err != nil {
		return fmt.Errorf("failed to upload audio: %w", err)
	}

	_, err := db.InsertTranslatedEpisode(uuid.NewString(), r.podcastID, r.userID, rec.LanguageCode, rec.VoiceName, key, int64(len(rec.Audio)))
	if err != nil {
		return fmt.Errorf("failed to record episode: %w", err)
	}
	return nil
}

func (h *TaskHandler) HandleTranslateBatchTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.TranslateBatchTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	log.Printf("Translating podcast %s into %d languages (job %s)", p.PodcastID, len(p.Languages), p.JobID)

	podcast, err := db.GetPodcastByID(p.PodcastID)
	if err != nil {
		return fmt.Errorf("failed to get podcast by id: %w", err)
	}

	recorder := episodeRecorder{store: h.store, podcastID: podcast.ID, userID: podcast.UserID}
	orchestrator := pipeline.New(h.translator, h.synthesizer, recorder, func(completed, total int) {
		if err := db.UpdateJobProgress(p.JobID, completed); err != nil {
			log.Printf("Failed to update progress for job %s: %v", p.JobID, err)
		}
	})

	result, err := orchestrator.Run(ctx, &podcast, pipeline.Selection{
		Languages: p.Languages,
		Voices:    p.Voices,
	})
	if err != nil {
		// Preconditions no longer hold, e.g. a transcription re-run
		// started after the job was enqueued.
		refusal, _ := json.Marshal([]pipeline.Failure{{Reason: err.Error()}})
		if dbErr := db.FinishTranslationJob(p.JobID, db.JobStatusFailed, 0, string(refusal)); dbErr != nil {
			log.Printf("Failed to finish job %s: %v", p.JobID, dbErr)
		}
		return fmt.Errorf("translation batch refused: %w", err)
	}

	errsJSON, err := json.Marshal(result.Failed)
	if err != nil {
		return fmt.Errorf("failed to marshal batch errors: %w", err)
	}

	status := db.JobStatusCompleted
	if result.HasErrors() {
		status = db.JobStatusCompletedWithErrors
	}
	if err := db.FinishTranslationJob(p.JobID, status, len(result.Succeeded), string(errsJSON)); err != nil {
		return fmt.Errorf("failed to finish job: %w", err)
	}

	log.Printf("Batch for podcast %s done: %d succeeded, %d failed", podcast.ID, len(result.Succeeded), len(result.Failed))
	if result.HasErrors() {
		h.notifyUser(podcast.UserID, fmt.Sprintf("Translation of \"%s\" finished with errors: %d of %d languages succeeded.", podcast.Title, len(result.Succeeded), len(p.Languages)))
	} else {
		h.notifyUser(podcast.UserID, fmt.Sprintf("Translation of \"%s\" finished: %d languages ready.", podcast.Title, len(result.Succeeded)))
	}

	return nil
}

func (h *TaskHandler) HandleReapStaleTask(ctx context.Context, t *asynq.Task) error {
	count, err := db.ReapStaleTranscriptions(time.Now().Add(-staleTranscriptionAge))
	if err != nil {
		return fmt.Errorf("failed to reap stale transcriptions: %w", err)
	}
	if count > 0 {
		log.Printf("Marked %d stale transcriptions as failed", count)
	}
	return nil
}

func (h *TaskHandler) notifyUser(userID, text string) {
	if h.notifier == nil {
		return
	}
	user, err := db.GetUserByID(userID)
	if err != nil {
		log.Printf("Failed to load user %s for notification: %v", userID, err)
		return
	}
	if user.TelegramChatID != nil {
		h.notifier.Notify(*user.TelegramChatID, text)
	}
}
