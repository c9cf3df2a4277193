package ingest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"

	"github.com/xpanvictor/vietrans/internal/types"
	"github.com/xpanvictor/vietrans/pkg/io/audio"
)

func TestIsAllowedExtension(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"a.wav":          true,
		"a.WAV":          true,
		"a.Mp3":          true,
		"clip.final.mp3": true,
		"a.txt":          false,
		"a":              false,
		"":               false,
		"wav":            false,
		"a.":             false,
		"a.wav.exe":      false,
		".mp3":           true,
	}
	for name, want := range cases {
		require.Equal(t, want, IsAllowedExtension(name), name)
	}
}

func TestSecureFilename(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"My cool movie.mp3":       "My_cool_movie.mp3",
		"../../../etc/passwd":     "passwd",
		`C:\Users\x\giọng nói.wav`: "ging_ni.wav",
		"..":                      "",
		".hidden.wav":             "hidden.wav",
		"":                        "",
		"__init__.wav":            "init__.wav",
	}
	for in, want := range cases {
		require.Equal(t, want, SecureFilename(in), in)
	}
}

func TestStoreSaveAndRelease(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewStore(dir, 1024, nil)
	require.NoError(t, err)
	require.DirExists(t, dir)

	up, err := store.Save("../evil name.WAV", strings.NewReader("RIFF...."))
	require.NoError(t, err)
	require.Equal(t, int64(8), up.Size)
	require.Equal(t, dir, filepath.Dir(up.Path))
	require.Equal(t, up.ID.String()+".wav", filepath.Base(up.Path))
	require.Equal(t, "evil_name.WAV", up.SafeName)
	require.FileExists(t, up.Path)

	require.NoError(t, up.Release())
	require.NoFileExists(t, up.Path)
	require.NoError(t, up.Release())
}

func TestStoreKeepsExtensionOfNonASCIIName(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir(), 1024, nil)
	require.NoError(t, err)

	cases := map[string]string{
		"ồ.WAV":      "wav",
		"录音.mp3":     "mp3",
		"ghi âm.wav": "wav",
		"notes.txt":  "bin",
	}
	for name, ext := range cases {
		up, err := store.Save(name, strings.NewReader("RIFF"))
		require.NoError(t, err)
		require.Equal(t, up.ID.String()+"."+ext, filepath.Base(up.Path), name)
		require.NoError(t, up.Release())
	}
}

func TestStoreSameNameNeverCollides(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir(), 1024, nil)
	require.NoError(t, err)

	const n = 8
	paths := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			up, err := store.Save("clip.mp3", strings.NewReader("ID3"))
			if err == nil {
				paths <- up.Path
			}
		}()
	}
	wg.Wait()
	close(paths)

	seen := map[string]bool{}
	for p := range paths {
		require.False(t, seen[p])
		seen[p] = true
	}
	require.Len(t, seen, n)
}

func TestStoreRejectsOversizedUpload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewStore(dir, 4, nil)
	require.NoError(t, err)

	_, err = store.Save("big.wav", strings.NewReader("12345"))
	require.Equal(t, types.KindTooLarge, types.KindOf(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)

	up, err := store.Save("exact.wav", strings.NewReader("1234"))
	require.NoError(t, err)
	require.NoError(t, up.Release())
}

func TestNewStoreRejectsBadLimit(t *testing.T) {
	t.Parallel()

	_, err := NewStore(t.TempDir(), 0, nil)
	require.Error(t, err)
}

func TestReleaseReportsCleanupErrorOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewStore(dir, 1024, nil)
	require.NoError(t, err)

	up, err := store.Save("a.wav", strings.NewReader("x"))
	require.NoError(t, err)

	// a non-empty directory at the path makes os.Remove fail
	require.NoError(t, os.Remove(up.Path))
	require.NoError(t, os.MkdirAll(filepath.Join(up.Path, "child"), 0o750))

	first := up.Release()
	require.Equal(t, types.KindCleanup, types.KindOf(first))
	require.True(t, errors.Is(up.Release(), first))
}

func TestReleaseMissingFileIsNotAnError(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir(), 1024, nil)
	require.NoError(t, err)
	up, err := store.Save("a.wav", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, os.Remove(up.Path))
	require.NoError(t, up.Release())
}

func writeStereoWAV(t *testing.T, path string, rate, frames int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	data := make([]int, frames*2)
	for i := 0; i < frames; i++ {
		data[2*i] = 16384
		data[2*i+1] = 0
	}

	enc := wav.NewEncoder(f, rate, 16, 2, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
}

func TestDecodeStereoWAVToMono16k(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clip.wav")
	writeStereoWAV(t, path, 44100, 44100)

	wave, err := Decode(path)
	require.NoError(t, err)
	require.Equal(t, audio.TargetSampleRate, wave.SampleRate)
	require.Len(t, wave.Samples, 16000)
	require.InDelta(t, 0.25, wave.Samples[100], 1e-3)
}

func TestDecodeMonoWAVAtTargetRate(t *testing.T) {
	t.Parallel()

	data, err := audio.EncodeWAV(audio.Waveform{Samples: []float32{0, 0.5, -0.5, 0}, SampleRate: audio.TargetSampleRate})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mono.WAV")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	wave, err := Decode(path)
	require.NoError(t, err)
	require.Len(t, wave.Samples, 4)
	require.InDelta(t, 0.5, wave.Samples[1], 1e-3)
}

func TestDecodeDetectsFormatFromContent(t *testing.T) {
	t.Parallel()

	data, err := audio.EncodeWAV(audio.Waveform{Samples: []float32{0, 0.5, -0.5, 0}, SampleRate: audio.TargetSampleRate})
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"clip.mp3", "clip.bin"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o600))

		wave, err := Decode(path)
		require.NoError(t, err, name)
		require.Len(t, wave.Samples, 4)
	}
}

func TestStoredNonASCIIUploadDecodes(t *testing.T) {
	t.Parallel()

	data, err := audio.EncodeWAV(audio.Waveform{Samples: []float32{0, 0.25, 0.25, 0}, SampleRate: audio.TargetSampleRate})
	require.NoError(t, err)

	store, err := NewStore(t.TempDir(), 1024, nil)
	require.NoError(t, err)
	up, err := store.Save("ồ.WAV", bytes.NewReader(data))
	require.NoError(t, err)
	defer up.Release()

	wave, err := Decode(up.Path)
	require.NoError(t, err)
	require.Len(t, wave.Samples, 4)
}

func TestDecodeFailuresAreDecodeErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	corrupt := filepath.Join(dir, "bad.wav")
	require.NoError(t, os.WriteFile(corrupt, []byte("not audio at all"), 0o600))
	_, err := Decode(corrupt)
	require.Equal(t, types.KindDecode, types.KindOf(err))

	badMP3 := filepath.Join(dir, "bad.mp3")
	require.NoError(t, os.WriteFile(badMP3, bytes.Repeat([]byte{0}, 64), 0o600))
	_, err = Decode(badMP3)
	require.Equal(t, types.KindDecode, types.KindOf(err))

	_, err = Decode(filepath.Join(dir, "missing.wav"))
	require.Equal(t, types.KindDecode, types.KindOf(err))

	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))
	_, err = Decode(other)
	require.Equal(t, types.KindDecode, types.KindOf(err))
}
