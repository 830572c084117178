package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testClient(serverURL string) *Client {
	c := NewClient("test-key")
	c.speechURL = serverURL
	c.translateURL = serverURL
	c.ttsURL = serverURL
	return c
}

func TestTranslate(t *testing.T) {
	var gotBody translateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"data":{"translations":[{"translatedText":"Hola mundo"}]}}`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	translated, err := c.Translate(context.Background(), "Hello world", "en-US", "es")

	assert.NoError(t, err)
	assert.Equal(t, "Hola mundo", translated)
	assert.Equal(t, "Hello world", gotBody.Q)
	// Regional tag reduced to the bare language for the translation API.
	assert.Equal(t, "en", gotBody.Source)
	assert.Equal(t, "es", gotBody.Target)
	assert.Equal(t, "text", gotBody.Format)
}

func TestTranslateRejectsEmptyTextBeforeAnyCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	c := testClient(server.URL)
	_, err := c.Translate(context.Background(), "   ", "en-US", "es")

	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Equal(t, 0, calls)
}

func TestTranslateEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"translations":[]}}`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	_, err := c.Translate(context.Background(), "Hello", "en-US", "es")

	assert.ErrorIs(t, err, ErrEmptyTranslation)
}

func TestTranslateProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"message":"Daily limit exceeded"}}`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	_, err := c.Translate(context.Background(), "Hello", "en-US", "es")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Daily limit exceeded")
}

func TestSynthesize(t *testing.T) {
	audio := []byte("fake mp3 bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req synthesizeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hola mundo", req.Input.Text)
		assert.Equal(t, "es", req.Voice.LanguageCode)
		assert.Equal(t, "es-ES-Standard-A", req.Voice.Name)
		assert.Equal(t, "MP3", req.AudioConfig.AudioEncoding)
		fmt.Fprintf(w, `{"audioContent":%q}`, base64.StdEncoding.EncodeToString(audio))
	}))
	defer server.Close()

	c := testClient(server.URL)
	got, err := c.Synthesize(context.Background(), "Hola mundo", "es", "es-ES-Standard-A")

	assert.NoError(t, err)
	assert.Equal(t, audio, got)
}

func TestSynthesizeNoAudioContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	_, err := c.Synthesize(context.Background(), "Hola", "es", "es-ES-Standard-A")

	assert.ErrorIs(t, err, ErrNoAudioContent)
}

func TestListVoicesDisplayNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "es", r.URL.Query().Get("languageCode"))
		fmt.Fprint(w, `{"voices":[
			{"name":"es-ES-Wavenet-A","ssmlGender":"FEMALE","naturalSampleRateHertz":24000},
			{"name":"es-ES-Standard-B","ssmlGender":"MALE","naturalSampleRateHertz":24000},
			{"name":"es-ES-Chirp-HD","ssmlGender":"NEUTRAL","naturalSampleRateHertz":24000}
		]}`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	voices, err := c.ListVoices(context.Background(), "es")

	assert.NoError(t, err)
	assert.Len(t, voices, 3)
	assert.Equal(t, "Female (WaveNet A)", voices[0].DisplayName)
	assert.Equal(t, "Male (Standard B)", voices[1].DisplayName)
	assert.Equal(t, "Neutral (Chirp-HD)", voices[2].DisplayName)
}

func TestTranscribePollsOperationUntilDone(t *testing.T) {
	polls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var req longRunningRecognizeRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "https://bucket/audio.mp3", req.Audio.URI)
			assert.Equal(t, "en-US", req.Config.LanguageCode)
			fmt.Fprint(w, `{"name":"op-123","done":false}`)
			return
		}
		polls++
		assert.Equal(t, "/operations/op-123", r.URL.Path)
		fmt.Fprint(w, `{"name":"op-123","done":true,"response":{"results":[
			{"alternatives":[{"transcript":"Hello world"}]},
			{"alternatives":[{"transcript":"Second segment"}]}
		]}}`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	transcript, language, err := c.Transcribe(context.Background(), "https://bucket/audio.mp3", "en-US")

	assert.NoError(t, err)
	assert.Equal(t, 1, polls)
	assert.Equal(t, "Hello world\nSecond segment", transcript)
	assert.Equal(t, "en-US", language)
}

func TestTranscribeNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"op-123","done":true,"response":{"results":[]}}`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	_, _, err := c.Transcribe(context.Background(), "https://bucket/audio.mp3", "en-US")

	assert.ErrorIs(t, err, ErrNoTranscript)
}

func TestTranscribeOperationTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"op-123","done":false}`)
	}))
	defer server.Close()

	c := testClient(server.URL)
	c.OperationWait = 100 * time.Millisecond

	_, _, err := c.Transcribe(context.Background(), "https://bucket/audio.mp3", "en-US")

	assert.ErrorIs(t, err, ErrOperationTimeout)
}

func TestTranscribeNotConfigured(t *testing.T) {
	c := NewClient("")
	_, _, err := c.Transcribe(context.Background(), "https://bucket/audio.mp3", "en-US")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
