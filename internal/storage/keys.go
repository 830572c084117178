package storage

import "fmt"

// OriginalKey is the object key for a podcast's uploaded audio.
func OriginalKey(userID, podcastID, ext string) string {
	return fmt.Sprintf("users/%s/podcasts/%s/original%s", userID, podcastID, ext)
}

// TranslationKey is the object key for one synthesized translation. The key
// is deterministic per (user, podcast, language, voice) so a re-run
// overwrites the previous object instead of accumulating copies.
func TranslationKey(userID, podcastID, languageCode, voiceName string) string {
	return fmt.Sprintf("users/%s/podcasts/%s/translations/%s/%s.mp3", userID, podcastID, languageCode, voiceName)
}
