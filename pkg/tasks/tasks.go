package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeTranscribePodcast = "podcast:transcribe"
	TypeTranslateBatch    = "podcast:translate_batch"
	TypeReapStale         = "podcasts:reap_stale"
)

type TranscribePodcastTaskPayload struct {
	PodcastID string
}

func NewTranscribePodcastTask(podcastID string) (*asynq.Task, error) {
	payload, err := json.Marshal(TranscribePodcastTaskPayload{PodcastID: podcastID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeTranscribePodcast, payload), nil
}

type TranslateBatchTaskPayload struct {
	JobID     string
	PodcastID string
	Languages []string
	Voices    map[string]string
}

// NewTranslateBatchTask builds the per-batch task. The batch itself has
// continue-on-error semantics, so it is enqueued with MaxRetry(0) by callers.
func NewTranslateBatchTask(jobID, podcastID string, languages []string, voices map[string]string) (*asynq.Task, error) {
	payload, err := json.Marshal(TranslateBatchTaskPayload{
		JobID:     jobID,
		PodcastID: podcastID,
		Languages: languages,
		Voices:    voices,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeTranslateBatch, payload), nil
}

func NewReapStaleTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeReapStale, nil), nil
}
