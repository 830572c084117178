package models

import "time"

// Podcast is a user-owned original audio upload and its transcript.
type Podcast struct {
	ID               string    `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"user_id"`
	Title            string    `db:"title" json:"title"`
	Description      *string   `db:"description" json:"description"`
	AudioPath        string    `db:"audio_path" json:"audio_path"`
	AudioFileSize    int64     `db:"audio_file_size" json:"audio_file_size"`
	OriginalLanguage string    `db:"original_language" json:"original_language"`
	Transcript       *string   `db:"transcript" json:"transcript"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// HasTranscript reports whether a non-empty transcript has been stored.
func (p *Podcast) HasTranscript() bool {
	return p.Transcript != nil && *p.Transcript != ""
}
