package models

import "time"

// TranslatedEpisode is one synthesized-audio result for a
// (podcast, language, voice) combination.
type TranslatedEpisode struct {
	ID               string    `db:"id" json:"id"`
	PodcastID        string    `db:"podcast_id" json:"podcast_id"`
	UserID           string    `db:"user_id" json:"user_id"`
	LanguageCode     string    `db:"language_code" json:"language_code"`
	VoiceName        string    `db:"voice_name" json:"voice_name"`
	AudioStoragePath string    `db:"audio_storage_path" json:"audio_storage_path"`
	FileSize         int64     `db:"file_size" json:"file_size"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// FeedEpisode is a translated episode joined with its podcast title, used
// when building the RSS feed.
type FeedEpisode struct {
	TranslatedEpisode
	PodcastTitle string `db:"podcast_title" json:"podcast_title"`
}
