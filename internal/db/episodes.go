package db

import (
	"errors"
	"log"

	"github.com/lib/pq"

	"podcast-polyglot/internal/models"
)

const (
	EpisodeStatusPending   = "pending"
	EpisodeStatusCompleted = "completed"
	EpisodeStatusFailed    = "failed"
)

const uniqueViolation = pq.ErrorCode("23505")

// InsertTranslatedEpisode records one synthesized episode. A unique-constraint
// conflict on (podcast_id, language_code, voice_name) means the episode is
// already recorded; that is reported as created=false, not an error.
func InsertTranslatedEpisode(id, podcastID, userID, languageCode, voiceName, audioPath string, fileSize int64) (created bool, err error) {
	query := `
		INSERT INTO translated_episodes (id, podcast_id, user_id, language_code, voice_name, audio_storage_path, file_size, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'completed')
	`
	_, err = DB.Exec(query, id, podcastID, userID, languageCode, voiceName, audioPath, fileSize)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			log.Printf("Episode for podcast %s lang %s voice %s already recorded", podcastID, languageCode, voiceName)
			return false, nil
		}
		log.Printf("Error inserting translated episode for podcast %s: %v", podcastID, err)
		return false, err
	}
	return true, nil
}

func GetEpisodesByPodcastID(podcastID string) ([]models.TranslatedEpisode, error) {
	query := `
		SELECT * FROM translated_episodes
		WHERE podcast_id = $1
		ORDER BY created_at DESC
	`
	var episodes []models.TranslatedEpisode
	err := DB.Select(&episodes, query, podcastID)
	if err != nil {
		log.Printf("Error getting episodes for podcast %s: %v", podcastID, err)
		return nil, err
	}
	return episodes, nil
}

func GetEpisodeForUser(id, userID string) (models.TranslatedEpisode, error) {
	episode := models.TranslatedEpisode{}
	err := DB.Get(&episode, "SELECT * FROM translated_episodes WHERE id = $1 AND user_id = $2", id, userID)
	return episode, err
}

func GetCompletedEpisodesByUserID(userID string) ([]models.FeedEpisode, error) {
	query := `
		SELECT e.*, p.title AS podcast_title
		FROM translated_episodes e
		JOIN podcasts p ON p.id = e.podcast_id
		WHERE e.user_id = $1 AND e.status = 'completed'
		ORDER BY e.created_at DESC
	`
	var episodes []models.FeedEpisode
	err := DB.Select(&episodes, query, userID)
	if err != nil {
		log.Printf("Error getting completed episodes for user %s: %v", userID, err)
		return nil, err
	}
	return episodes, nil
}

func DeleteEpisodesByPodcastID(podcastID string) error {
	_, err := DB.Exec("DELETE FROM translated_episodes WHERE podcast_id = $1", podcastID)
	return err
}
