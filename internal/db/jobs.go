package db

import (
	"log"

	"podcast-polyglot/internal/models"
)

const (
	JobStatusRunning             = "running"
	JobStatusCompleted           = "completed"
	JobStatusCompletedWithErrors = "completed_with_errors"
	JobStatusFailed              = "failed"
)

func CreateTranslationJob(id, podcastID, userID, languagesJSON string, totalSteps int) (models.TranslationJob, error) {
	query := `
		INSERT INTO translation_jobs (id, podcast_id, user_id, languages, total_steps, completed_steps, successful_languages, errors, status)
		VALUES ($1, $2, $3, $4, $5, 0, 0, '[]', 'running')
		RETURNING *
	`
	job := models.TranslationJob{}
	err := DB.Get(&job, query, id, podcastID, userID, languagesJSON, totalSteps)
	if err != nil {
		log.Printf("Error creating translation job for podcast %s: %v", podcastID, err)
	}
	return job, err
}

func GetTranslationJobForUser(id, userID string) (models.TranslationJob, error) {
	job := models.TranslationJob{}
	err := DB.Get(&job, "SELECT * FROM translation_jobs WHERE id = $1 AND user_id = $2", id, userID)
	return job, err
}

func UpdateJobProgress(id string, completedSteps int) error {
	_, err := DB.Exec("UPDATE translation_jobs SET completed_steps = $1, updated_at = NOW() WHERE id = $2", completedSteps, id)
	return err
}

func FinishTranslationJob(id, status string, successfulLanguages int, errorsJSON string) error {
	_, err := DB.Exec(`
		UPDATE translation_jobs
		SET status = $1, successful_languages = $2, errors = $3, updated_at = NOW()
		WHERE id = $4`,
		status, successfulLanguages, errorsJSON, id)
	return err
}

func DeleteJobsByPodcastID(podcastID string) error {
	_, err := DB.Exec("DELETE FROM translation_jobs WHERE podcast_id = $1", podcastID)
	return err
}
