package feed

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/eduncan911/podcast"

	"podcast-polyglot/internal/models"
)

func getBaseURL(r *http.Request) string {
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		return baseURL
	}

	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "https"
		if r.Header.Get("X-Forwarded-Proto") != "" {
			scheme = r.Header.Get("X-Forwarded-Proto")
		}
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GenerateRSS renders the user's completed translated episodes as a podcast
// feed. Enclosure URLs are presigned at generation time.
func GenerateRSS(user *models.User, episodes []models.FeedEpisode, presign func(key string) (string, error), r *http.Request) (string, error) {
	baseURL := getBaseURL(r)

	p := podcast.New(
		"Translated Episodes",
		fmt.Sprintf("%s/rss/%s", baseURL, user.RSSUUID),
		"Machine-translated versions of your podcast episodes.",
		&time.Time{}, &time.Time{},
	)

	for i := range episodes {
		episode := &episodes[i]

		enclosureURL, err := presign(episode.AudioStoragePath)
		if err != nil {
			return "", fmt.Errorf("presign enclosure for episode %s: %w", episode.ID, err)
		}

		pubDate := episode.CreatedAt
		item := podcast.Item{
			Title:       fmt.Sprintf("%s (%s)", episode.PodcastTitle, episode.LanguageCode),
			Description: fmt.Sprintf("Translated to %s, voiced by %s.", episode.LanguageCode, episode.VoiceName),
			PubDate:     &pubDate,
		}
		item.AddEnclosure(enclosureURL, podcast.MP3, episode.FileSize)
		if _, err := p.AddItem(item); err != nil {
			return "", err
		}
	}

	return p.String(), nil
}
