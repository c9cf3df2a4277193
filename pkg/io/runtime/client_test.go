package runtime

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadModel(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/models/load", r.URL.Path)

		var in LoadRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "translation", in.Kind)
		assert.Equal(t, "/models/marian", in.Path)
		assert.Equal(t, "cuda", in.Device)

		_, _ = w.Write([]byte(`{"model_id":"marian-1","device":"cuda"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, nil)
	out, err := c.LoadModel(context.Background(), LoadRequest{
		Kind: "translation", Path: "/models/marian", Format: "transformers", Device: "cuda",
	})
	require.NoError(t, err)
	require.Equal(t, "marian-1", out.ModelID)
}

func TestLoadModelRequiresModelID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).LoadModel(context.Background(), LoadRequest{Path: "/m"})
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestTranscribeSendsMultipartAndParams(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/speech/transcribe", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "whisper-1", q.Get("model_id"))
		assert.Equal(t, "vi", q.Get("language"))
		assert.Equal(t, "2", q.Get("num_beams"))
		assert.Equal(t, "448", q.Get("max_length"))
		assert.Equal(t, "3", q.Get("no_repeat_ngram_size"))

		file, header, err := r.FormFile("audio_file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		assert.Equal(t, "audio.wav", header.Filename)
		data, err := io.ReadAll(file)
		assert.NoError(t, err)
		assert.Equal(t, []byte("RIFFdata"), data)

		_, _ = w.Write([]byte(`{"text":"xin chào","language":"vi"}`))
	}))
	defer srv.Close()

	text, err := NewClient(srv.URL, time.Second, nil).Transcribe(context.Background(), []byte("RIFFdata"), TranscribeParams{
		ModelID: "whisper-1", Language: "vi", NumBeams: 2, MaxLength: 448, NoRepeatNgramSize: 3,
	})
	require.NoError(t, err)
	require.Equal(t, "xin chào", text)
}

func TestTranscribeRejectsEmptyAudio(t *testing.T) {
	t.Parallel()

	_, err := NewClient("http://127.0.0.1:1", time.Second, nil).Transcribe(context.Background(), nil, TranscribeParams{})
	require.Error(t, err)
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/translation/generate", r.URL.Path)
		var in TranslateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Xin chào", in.Text)
		assert.Equal(t, 4, in.NumBeams)
		assert.InDelta(t, 0.6, in.LengthPenalty, 1e-9)
		assert.Equal(t, 512, in.MaxLength)
		assert.True(t, in.Padding)

		_, _ = w.Write([]byte(`{"text":"Hello"}`))
	}))
	defer srv.Close()

	text, err := NewClient(srv.URL, time.Second, nil).Translate(context.Background(), TranslateRequest{
		ModelID: "m", Text: "Xin chào", NumBeams: 4, LengthPenalty: 0.6, MaxLength: 512, MaxInputTokens: 512, Padding: true,
	})
	require.NoError(t, err)
	require.Equal(t, "Hello", text)
}

func TestNon2xxBecomesStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "CUDA out of memory", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).Translate(context.Background(), TranslateRequest{Text: "a"})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	require.Contains(t, statusErr.Body, "CUDA out of memory")
}

func TestEmptyBodyIsAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, nil).Translate(context.Background(), TranslateRequest{Text: "a"})
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, time.Second, nil).Health(context.Background()))
}
