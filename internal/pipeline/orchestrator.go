// Package pipeline drives one translation batch: for each selected target
// language, translate the transcript, synthesize audio with the chosen
// voice, and record the result. A failed language never aborts the batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"podcast-polyglot/internal/db"
	"podcast-polyglot/internal/models"
)

var (
	ErrNoTranscript        = errors.New("podcast has no transcript")
	ErrNoSourceLanguage    = errors.New("podcast original language is unknown")
	ErrTranscribing        = errors.New("podcast is still transcribing")
	ErrTranscriptionFailed = errors.New("podcast transcription failed")
)

type Translator interface {
	Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text, languageCode, voiceName string) ([]byte, error)
}

// Recording is one synthesized result handed to the Recorder for
// persistence (object upload plus episode row).
type Recording struct {
	LanguageCode string
	VoiceName    string
	Audio        []byte
}

type Recorder interface {
	Record(ctx context.Context, rec Recording) error
}

// Selection is the user's chosen target languages, in order, and the voice
// picked for each one.
type Selection struct {
	Languages []string
	Voices    map[string]string
}

// Failure is one language that produced no usable output.
type Failure struct {
	Language string `json:"language"`
	Reason   string `json:"reason"`
}

// Result is the batch report. Succeeded and Failed partition the selection;
// CompletedSteps counts step attempts out of TotalSteps (two per language).
type Result struct {
	Succeeded      []string
	Failed         []Failure
	CompletedSteps int
	TotalSteps     int
}

// HasErrors reports whether the batch completed with errors.
func (r Result) HasErrors() bool {
	return len(r.Failed) > 0
}

// Progress is completed step attempts over total steps as an integer
// percent. A skipped synthesis is not an attempt, so a batch with failures
// finishes below 100.
func (r Result) Progress() int {
	if r.TotalSteps == 0 {
		return 0
	}
	return r.CompletedSteps * 100 / r.TotalSteps
}

// ProgressFunc is notified after every step attempt.
type ProgressFunc func(completedSteps, totalSteps int)

type Orchestrator struct {
	translator  Translator
	synthesizer Synthesizer
	recorder    Recorder
	onProgress  ProgressFunc
}

func New(translator Translator, synthesizer Synthesizer, recorder Recorder, onProgress ProgressFunc) *Orchestrator {
	return &Orchestrator{
		translator:  translator,
		synthesizer: synthesizer,
		recorder:    recorder,
		onProgress:  onProgress,
	}
}

// CheckReady refuses a batch whose preconditions do not hold: the transcript
// and source language must be present and transcription must not be running
// or failed.
func CheckReady(podcast *models.Podcast) error {
	switch podcast.Status {
	case db.StatusTranscribing:
		return ErrTranscribing
	case db.StatusTranscriptionFailed:
		return ErrTranscriptionFailed
	}
	if !podcast.HasTranscript() {
		return ErrNoTranscript
	}
	if podcast.OriginalLanguage == "" {
		return ErrNoSourceLanguage
	}
	return nil
}

// Run executes the batch for one podcast. Languages are processed strictly
// in selection order; each gets one translation attempt and, if that
// succeeds, one synthesis attempt. Errors are collected per language and
// the remaining languages still run.
func (o *Orchestrator) Run(ctx context.Context, podcast *models.Podcast, sel Selection) (Result, error) {
	if err := CheckReady(podcast); err != nil {
		return Result{}, err
	}

	result := Result{TotalSteps: 2 * len(sel.Languages), Failed: []Failure{}}

	for _, language := range sel.Languages {
		voice := sel.Voices[language]
		if voice == "" {
			voice = language + "-Standard-A"
		}

		translated, err := o.translator.Translate(ctx, *podcast.Transcript, podcast.OriginalLanguage, language)
		result.CompletedSteps++
		o.reportProgress(result)
		if err != nil {
			log.Printf("Translation to %s failed for podcast %s: %v", language, podcast.ID, err)
			result.Failed = append(result.Failed, Failure{
				Language: language,
				Reason:   fmt.Sprintf("Translation to %s failed: %v", language, err),
			})
			continue
		}

		audio, err := o.synthesizer.Synthesize(ctx, translated, language, voice)
		result.CompletedSteps++
		o.reportProgress(result)
		if err != nil {
			log.Printf("Synthesis for %s failed for podcast %s: %v", language, podcast.ID, err)
			result.Failed = append(result.Failed, Failure{
				Language: language,
				Reason:   fmt.Sprintf("Synthesis for %s failed: %v", language, err),
			})
			continue
		}

		err = o.recorder.Record(ctx, Recording{
			LanguageCode: language,
			VoiceName:    voice,
			Audio:        audio,
		})
		if err != nil {
			log.Printf("Recording %s result failed for podcast %s: %v", language, podcast.ID, err)
			result.Failed = append(result.Failed, Failure{
				Language: language,
				Reason:   fmt.Sprintf("Storing translation for %s failed: %v", language, err),
			})
			continue
		}

		result.Succeeded = append(result.Succeeded, language)
	}

	return result, nil
}

func (o *Orchestrator) reportProgress(r Result) {
	if o.onProgress != nil {
		o.onProgress(r.CompletedSteps, r.TotalSteps)
	}
}
