package db

import (
	"log"
	"time"

	"podcast-polyglot/internal/models"
)

const (
	StatusUploaded            = "uploaded"
	StatusTranscribing        = "transcribing"
	StatusTranscribed         = "transcribed"
	StatusTranscriptionFailed = "transcription_failed"
)

func CreatePodcast(id, userID, title string, description *string, audioPath string, audioSize int64, originalLanguage string) (models.Podcast, error) {
	query := `
		INSERT INTO podcasts (id, user_id, title, description, audio_path, audio_file_size, original_language, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'uploaded')
		RETURNING *
	`
	podcast := models.Podcast{}
	err := DB.Get(&podcast, query, id, userID, title, description, audioPath, audioSize, originalLanguage)
	if err != nil {
		log.Printf("Error creating podcast for user %s: %v", userID, err)
	}
	return podcast, err
}

func GetPodcastByID(id string) (models.Podcast, error) {
	podcast := models.Podcast{}
	err := DB.Get(&podcast, "SELECT * FROM podcasts WHERE id = $1", id)
	return podcast, err
}

func GetPodcastForUser(id, userID string) (models.Podcast, error) {
	podcast := models.Podcast{}
	err := DB.Get(&podcast, "SELECT * FROM podcasts WHERE id = $1 AND user_id = $2", id, userID)
	return podcast, err
}

func GetPodcastsByUserID(userID string) ([]models.Podcast, error) {
	query := `
		SELECT * FROM podcasts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	var podcasts []models.Podcast
	err := DB.Select(&podcasts, query, userID)
	if err != nil {
		log.Printf("Error getting podcasts for user %s: %v", userID, err)
		return nil, err
	}
	return podcasts, nil
}

func UpdatePodcastStatus(id string, status string) error {
	_, err := DB.Exec("UPDATE podcasts SET status = $1, updated_at = NOW() WHERE id = $2", status, id)
	return err
}

// UpdatePodcastTranscribed stores the transcript and the language the
// speech provider actually used, and moves the podcast to 'transcribed'.
func UpdatePodcastTranscribed(id string, transcript string, language string) error {
	_, err := DB.Exec(`
		UPDATE podcasts
		SET status = 'transcribed', transcript = $1, original_language = $2, updated_at = NOW()
		WHERE id = $3`,
		transcript, language, id)
	return err
}

func MarkTranscriptionFailed(id string) error {
	_, err := DB.Exec("UPDATE podcasts SET status = 'transcription_failed', updated_at = NOW() WHERE id = $1", id)
	return err
}

func DeletePodcast(id, userID string) error {
	_, err := DB.Exec("DELETE FROM podcasts WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		log.Printf("Error deleting podcast %s for user %s: %v", id, userID, err)
	}
	return err
}

// ReapStaleTranscriptions marks podcasts stuck in 'transcribing' since before
// the cutoff as failed. Returns the number of rows updated.
func ReapStaleTranscriptions(cutoff time.Time) (int64, error) {
	res, err := DB.Exec(`
		UPDATE podcasts
		SET status = 'transcription_failed', updated_at = NOW()
		WHERE status = 'transcribing' AND updated_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
