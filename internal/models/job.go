package models

import "time"

// TranslationJob tracks one translation batch for a podcast. Languages and
// Errors are JSON-encoded so the job row is self-contained.
type TranslationJob struct {
	ID                  string    `db:"id"`
	PodcastID           string    `db:"podcast_id"`
	UserID              string    `db:"user_id"`
	Languages           string    `db:"languages"`
	TotalSteps          int       `db:"total_steps"`
	CompletedSteps      int       `db:"completed_steps"`
	SuccessfulLanguages int       `db:"successful_languages"`
	Errors              string    `db:"errors"`
	Status              string    `db:"status"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// ProgressPercent is completed steps over total steps as an integer percent.
func (j *TranslationJob) ProgressPercent() int {
	if j.TotalSteps == 0 {
		return 0
	}
	return j.CompletedSteps * 100 / j.TotalSteps
}
