package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xpanvictor/vietrans/pkg/io/audio"
	"github.com/xpanvictor/vietrans/pkg/io/checkpoint"
	"github.com/xpanvictor/vietrans/pkg/io/stt"
)

func wave() audio.Waveform {
	return audio.Waveform{Samples: make([]float32, 800), SampleRate: audio.TargetSampleRate}
}

func TestRecognizerTranscribe(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "model_fine-tuned_whisper", r.FormValue("model"))
		assert.Equal(t, "vi", r.FormValue("language"))
		_, header, err := r.FormFile("file")
		if assert.NoError(t, err) {
			assert.Equal(t, "audio.wav", header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":" xin chào "}`))
	}))
	defer srv.Close()

	r := NewRecognizer(srv.URL+"/v1/", "", "", nil, option.WithMaxRetries(0))

	_, err := r.Transcribe(context.Background(), wave(), stt.Options{Language: "vi"})
	require.ErrorIs(t, err, ErrNotLoaded)

	ckpt := checkpoint.Checkpoint{Kind: checkpoint.KindSpeech, Path: "/models/model_fine-tuned_whisper", Format: checkpoint.FormatTransformers}
	require.NoError(t, r.Load(context.Background(), ckpt, "cpu"))

	text, err := r.Transcribe(context.Background(), wave(), stt.Options{Language: "vi", NumBeams: 2})
	require.NoError(t, err)
	require.Equal(t, "xin chào", text)
}

func TestRecognizerServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"model crashed"}}`))
	}))
	defer srv.Close()

	r := NewRecognizer(srv.URL+"/v1/", "key", "whisper-1", nil, option.WithMaxRetries(0))
	require.NoError(t, r.Load(context.Background(), checkpoint.Checkpoint{Path: "/m"}, "cpu"))

	_, err := r.Transcribe(context.Background(), wave(), stt.Options{Language: "vi"})
	require.Error(t, err)
}

func TestRecognizerLoadRequiresPath(t *testing.T) {
	t.Parallel()

	err := NewRecognizer("http://127.0.0.1:1/v1/", "", "", nil).Load(context.Background(), checkpoint.Checkpoint{}, "cpu")
	require.ErrorIs(t, err, checkpoint.ErrMissing)
}
