package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"

	"podcast-polyglot/internal/db"
	"podcast-polyglot/internal/models"
	"podcast-polyglot/internal/pipeline"
	"podcast-polyglot/pkg/tasks"
)

const maxLanguagesPerBatch = 10

type translateRequest struct {
	Languages []string          `json:"languages"`
	Voices    map[string]string `json:"voices"`
}

// PostTranslate starts a translation batch. Preconditions are checked here
// so a refused batch makes no provider calls and creates no job.
func (h *Handlers) PostTranslate(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	podcastID := mux.Vars(r)["id"]

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Languages) == 0 {
		respondError(w, http.StatusBadRequest, "At least one target language is required")
		return
	}
	if len(req.Languages) > maxLanguagesPerBatch {
		respondError(w, http.StatusBadRequest, "Too many target languages")
		return
	}

	podcast, err := db.GetPodcastForUser(podcastID, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Podcast not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to get podcast")
		return
	}

	if err := pipeline.CheckReady(&podcast); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}

	languagesJSON, err := json.Marshal(req.Languages)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to encode languages")
		return
	}

	job, err := db.CreateTranslationJob(uuid.NewString(), podcast.ID, user.ID, string(languagesJSON), 2*len(req.Languages))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create translation job")
		return
	}

	task, err := tasks.NewTranslateBatchTask(job.ID, podcast.ID, req.Languages, req.Voices)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}
	// The batch handles per-language failure itself; re-running the whole
	// task would re-attempt languages that already succeeded.
	if _, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(0)); err != nil {
		log.Printf("Error enqueuing translation batch for podcast %s: %v", podcast.ID, err)
		respondError(w, http.StatusInternalServerError, "Failed to queue translation")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":      job.ID,
		"total_steps": job.TotalSteps,
	})
}

type jobResponse struct {
	ID                  string             `json:"id"`
	PodcastID           string             `json:"podcast_id"`
	Status              string             `json:"status"`
	Progress            int                `json:"progress"`
	CompletedSteps      int                `json:"completed_steps"`
	TotalSteps          int                `json:"total_steps"`
	SuccessfulLanguages int                `json:"successful_languages"`
	Languages           []string           `json:"languages"`
	Errors              []pipeline.Failure `json:"errors"`
}

func (h *Handlers) GetTranslationJob(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	jobID := mux.Vars(r)["id"]

	job, err := db.GetTranslationJobForUser(jobID, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Job not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to get job")
		return
	}

	respondJSON(w, http.StatusOK, buildJobResponse(job))
}

func buildJobResponse(job models.TranslationJob) jobResponse {
	resp := jobResponse{
		ID:                  job.ID,
		PodcastID:           job.PodcastID,
		Status:              job.Status,
		Progress:            job.ProgressPercent(),
		CompletedSteps:      job.CompletedSteps,
		TotalSteps:          job.TotalSteps,
		SuccessfulLanguages: job.SuccessfulLanguages,
		Languages:           []string{},
		Errors:              []pipeline.Failure{},
	}
	if err := json.Unmarshal([]byte(job.Languages), &resp.Languages); err != nil {
		log.Printf("Error decoding languages for job %s: %v", job.ID, err)
	}
	if err := json.Unmarshal([]byte(job.Errors), &resp.Errors); err != nil {
		log.Printf("Error decoding errors for job %s: %v", job.ID, err)
	}
	return resp
}
