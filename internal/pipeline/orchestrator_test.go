package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"podcast-polyglot/internal/db"
	"podcast-polyglot/internal/models"
)

type fakeTranslator struct {
	calls []string
	fail  map[string]error
}

func (f *fakeTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	f.calls = append(f.calls, target)
	if err := f.fail[target]; err != nil {
		return "", err
	}
	return "translated to " + target + ": " + text, nil
}

type fakeSynthesizer struct {
	calls  []string
	voices []string
	fail   map[string]error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, languageCode, voiceName string) ([]byte, error) {
	f.calls = append(f.calls, languageCode)
	f.voices = append(f.voices, voiceName)
	if err := f.fail[languageCode]; err != nil {
		return nil, err
	}
	return []byte("audio for " + languageCode), nil
}

type fakeRecorder struct {
	recordings []Recording
	fail       map[string]error
}

func (f *fakeRecorder) Record(ctx context.Context, rec Recording) error {
	if err := f.fail[rec.LanguageCode]; err != nil {
		return err
	}
	f.recordings = append(f.recordings, rec)
	return nil
}

func transcribedPodcast() *models.Podcast {
	transcript := "Hello world"
	return &models.Podcast{
		ID:               "pod-1",
		UserID:           "user-1",
		Title:            "Test Podcast",
		OriginalLanguage: "en-US",
		Transcript:       &transcript,
		Status:           db.StatusTranscribed,
	}
}

func TestRunAllLanguagesSucceed(t *testing.T) {
	translator := &fakeTranslator{}
	synthesizer := &fakeSynthesizer{}
	recorder := &fakeRecorder{}
	o := New(translator, synthesizer, recorder, nil)

	result, err := o.Run(context.Background(), transcribedPodcast(), Selection{
		Languages: []string{"es", "fr"},
		Voices:    map[string]string{"es": "es-ES-Standard-A", "fr": "fr-FR-Wavenet-B"},
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"es", "fr"}, translator.calls)
	assert.Equal(t, []string{"es", "fr"}, synthesizer.calls)
	assert.Equal(t, []string{"es-ES-Standard-A", "fr-FR-Wavenet-B"}, synthesizer.voices)
	assert.Len(t, recorder.recordings, 2)
	assert.Equal(t, []string{"es", "fr"}, result.Succeeded)
	assert.False(t, result.HasErrors())
	assert.Equal(t, 100, result.Progress())
}

func TestRunContinuesAfterTranslationFailure(t *testing.T) {
	translator := &fakeTranslator{fail: map[string]error{"fr": errors.New("quota exceeded")}}
	synthesizer := &fakeSynthesizer{}
	recorder := &fakeRecorder{}
	o := New(translator, synthesizer, recorder, nil)

	result, err := o.Run(context.Background(), transcribedPodcast(), Selection{
		Languages: []string{"es", "fr"},
		Voices:    map[string]string{"es": "es-ES-Standard-A", "fr": "fr-FR-Wavenet-B"},
	})

	assert.NoError(t, err)
	// Both languages get a translation attempt; synthesis is skipped for fr.
	assert.Equal(t, []string{"es", "fr"}, translator.calls)
	assert.Equal(t, []string{"es"}, synthesizer.calls)
	assert.Len(t, recorder.recordings, 1)
	assert.Equal(t, []string{"es"}, result.Succeeded)
	assert.Len(t, result.Failed, 1)
	assert.Equal(t, "fr", result.Failed[0].Language)
	assert.Contains(t, result.Failed[0].Reason, "Translation to fr failed")
	assert.True(t, result.HasErrors())
	assert.Equal(t, 3, result.CompletedSteps)
	assert.Equal(t, 4, result.TotalSteps)
}

func TestRunSynthesisFailureDiscardsLanguage(t *testing.T) {
	translator := &fakeTranslator{}
	synthesizer := &fakeSynthesizer{fail: map[string]error{"de": errors.New("bad voice")}}
	recorder := &fakeRecorder{}
	o := New(translator, synthesizer, recorder, nil)

	result, err := o.Run(context.Background(), transcribedPodcast(), Selection{
		Languages: []string{"de"},
		Voices:    map[string]string{"de": "de-DE-Standard-A"},
	})

	assert.NoError(t, err)
	// The translated text without audio is not persisted.
	assert.Empty(t, recorder.recordings)
	assert.Empty(t, result.Succeeded)
	assert.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0].Reason, "Synthesis for de failed")
	assert.Equal(t, 2, result.CompletedSteps)
}

func TestRunRecorderFailureIsPerLanguage(t *testing.T) {
	translator := &fakeTranslator{}
	synthesizer := &fakeSynthesizer{}
	recorder := &fakeRecorder{fail: map[string]error{"es": errors.New("bucket gone")}}
	o := New(translator, synthesizer, recorder, nil)

	result, err := o.Run(context.Background(), transcribedPodcast(), Selection{
		Languages: []string{"es", "fr"},
		Voices:    map[string]string{"es": "es-ES-Standard-A", "fr": "fr-FR-Wavenet-B"},
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"fr"}, result.Succeeded)
	assert.Len(t, result.Failed, 1)
	assert.Contains(t, result.Failed[0].Reason, "Storing translation for es failed")
}

func TestRunProgressIsPerStepAttempt(t *testing.T) {
	translator := &fakeTranslator{}
	synthesizer := &fakeSynthesizer{}
	recorder := &fakeRecorder{}

	var percents []int
	o := New(translator, synthesizer, recorder, func(completed, total int) {
		percents = append(percents, completed*100/total)
	})

	_, err := o.Run(context.Background(), transcribedPodcast(), Selection{
		Languages: []string{"es", "fr"},
		Voices:    map[string]string{"es": "es-ES-Standard-A", "fr": "fr-FR-Wavenet-B"},
	})

	assert.NoError(t, err)
	assert.Equal(t, []int{25, 50, 75, 100}, percents)
}

func TestRunDefaultsVoiceWhenUnselected(t *testing.T) {
	translator := &fakeTranslator{}
	synthesizer := &fakeSynthesizer{}
	recorder := &fakeRecorder{}
	o := New(translator, synthesizer, recorder, nil)

	_, err := o.Run(context.Background(), transcribedPodcast(), Selection{Languages: []string{"es"}})

	assert.NoError(t, err)
	assert.Equal(t, []string{"es-Standard-A"}, synthesizer.voices)
}

func TestRunRefusedWhileTranscribing(t *testing.T) {
	translator := &fakeTranslator{}
	o := New(translator, &fakeSynthesizer{}, &fakeRecorder{}, nil)

	podcast := transcribedPodcast()
	podcast.Status = db.StatusTranscribing

	_, err := o.Run(context.Background(), podcast, Selection{Languages: []string{"es"}})

	assert.ErrorIs(t, err, ErrTranscribing)
	assert.Empty(t, translator.calls)
}

func TestRunRefusedAfterTranscriptionFailure(t *testing.T) {
	translator := &fakeTranslator{}
	o := New(translator, &fakeSynthesizer{}, &fakeRecorder{}, nil)

	podcast := transcribedPodcast()
	podcast.Status = db.StatusTranscriptionFailed

	_, err := o.Run(context.Background(), podcast, Selection{Languages: []string{"es"}})

	assert.ErrorIs(t, err, ErrTranscriptionFailed)
	assert.Empty(t, translator.calls)
}

func TestRunRefusedWithoutTranscript(t *testing.T) {
	translator := &fakeTranslator{}
	o := New(translator, &fakeSynthesizer{}, &fakeRecorder{}, nil)

	podcast := transcribedPodcast()
	podcast.Transcript = nil

	_, err := o.Run(context.Background(), podcast, Selection{Languages: []string{"es"}})

	assert.ErrorIs(t, err, ErrNoTranscript)
	assert.Empty(t, translator.calls)
}

func TestRunRefusedWithoutSourceLanguage(t *testing.T) {
	o := New(&fakeTranslator{}, &fakeSynthesizer{}, &fakeRecorder{}, nil)

	podcast := transcribedPodcast()
	podcast.OriginalLanguage = ""

	_, err := o.Run(context.Background(), podcast, Selection{Languages: []string{"es"}})

	assert.ErrorIs(t, err, ErrNoSourceLanguage)
}
