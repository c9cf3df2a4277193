package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestInspectSpeechTransformers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"config.json":              `{"model_type":"whisper"}`,
		"preprocessor_config.json": `{}`,
		"model.safetensors":        "",
	})

	ckpt, err := Inspect(dir, KindSpeech)
	require.NoError(t, err)
	require.Equal(t, FormatTransformers, ckpt.Format)
	require.Equal(t, "whisper", ckpt.ModelType)
	require.Equal(t, KindSpeech, ckpt.Kind)
	require.Contains(t, ckpt.Files, "model.safetensors")
}

func TestInspectTranslationNeedsTokenizer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"config.json": `{"model_type":"marian"}`})

	_, err := Inspect(dir, KindTranslation)
	require.ErrorIs(t, err, ErrMalformed)

	writeFiles(t, dir, map[string]string{"source.spm": ""})
	ckpt, err := Inspect(dir, KindTranslation)
	require.NoError(t, err)
	require.Equal(t, "marian", ckpt.ModelType)
}

func TestInspectSpeechNeedsPreprocessor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"config.json": `{"model_type":"whisper"}`})

	_, err := Inspect(dir, KindSpeech)
	require.ErrorIs(t, err, ErrMalformed)
	require.Contains(t, err.Error(), "preprocessor_config.json")
}

func TestInspectMissingPath(t *testing.T) {
	t.Parallel()

	_, err := Inspect(filepath.Join(t.TempDir(), "nope"), KindSpeech)
	require.ErrorIs(t, err, ErrMissing)

	_, err = Inspect("  ", KindTranslation)
	require.ErrorIs(t, err, ErrMissing)
}

func TestInspectMalformedConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"config.json":              `{not json`,
		"preprocessor_config.json": `{}`,
	})

	_, err := Inspect(dir, KindSpeech)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestInspectGGMLFileAndDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"ggml-vi-small.bin": "weights"})

	fromDir, err := Inspect(dir, KindSpeech)
	require.NoError(t, err)
	require.Equal(t, FormatGGML, fromDir.Format)
	require.Equal(t, filepath.Join(dir, "ggml-vi-small.bin"), fromDir.ModelFile)

	fromFile, err := Inspect(filepath.Join(dir, "ggml-vi-small.bin"), KindSpeech)
	require.NoError(t, err)
	require.Equal(t, FormatGGML, fromFile.Format)
	require.Equal(t, dir, fromFile.Path)
}

func TestInspectEmptyDirectory(t *testing.T) {
	t.Parallel()

	_, err := Inspect(t.TempDir(), KindSpeech)
	require.ErrorIs(t, err, ErrMalformed)
}
