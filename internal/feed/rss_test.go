package feed

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"podcast-polyglot/internal/models"
)

func TestGenerateRSS(t *testing.T) {
	user := &models.User{ID: "user-1", RSSUUID: "rss-uuid-1"}
	episodes := []models.FeedEpisode{
		{
			TranslatedEpisode: models.TranslatedEpisode{
				ID:               "ep-1",
				LanguageCode:     "es",
				VoiceName:        "es-ES-Standard-A",
				AudioStoragePath: "users/user-1/podcasts/pod-1/translations/es/es-ES-Standard-A.mp3",
				FileSize:         2048,
				CreatedAt:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			},
			PodcastTitle: "My Show",
		},
	}

	presign := func(key string) (string, error) {
		return "https://bucket.example/" + key + "?signature=abc", nil
	}

	req := httptest.NewRequest("GET", "https://polyglot.example/rss/rss-uuid-1", nil)
	xml, err := GenerateRSS(user, episodes, presign, req)

	assert.NoError(t, err)
	assert.Contains(t, xml, "<title>My Show (es)</title>")
	assert.Contains(t, xml, "voiced by es-ES-Standard-A")
	assert.Contains(t, xml, "https://bucket.example/users/user-1/podcasts/pod-1/translations/es/es-ES-Standard-A.mp3?signature=abc")
	assert.Contains(t, xml, "rss/rss-uuid-1")
}

func TestGenerateRSSEmptyFeed(t *testing.T) {
	user := &models.User{ID: "user-1", RSSUUID: "rss-uuid-1"}

	req := httptest.NewRequest("GET", "https://polyglot.example/rss/rss-uuid-1", nil)
	xml, err := GenerateRSS(user, nil, func(key string) (string, error) { return "", nil }, req)

	assert.NoError(t, err)
	assert.Contains(t, xml, "<rss")
	assert.NotContains(t, xml, "<item>")
}
