package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"

	"github.com/xpanvictor/vietrans/internal/types"
	"github.com/xpanvictor/vietrans/pkg/io/audio"
)

// Decode reads a staged wav or mp3 file into a mono waveform at 16 kHz.
// Every failure is a decode error.
func Decode(path string) (audio.Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return audio.Waveform{}, types.Decode(fmt.Errorf("open audio: %w", err))
	}
	defer f.Close()

	format, err := sniffFormat(f)
	if err != nil {
		return audio.Waveform{}, types.Decode(err)
	}
	if format == "" {
		format = Extension(path)
	}

	var wave audio.Waveform
	switch format {
	case "wav":
		wave, err = audio.DecodeWAV(f)
	case "mp3":
		wave, err = audio.DecodeMP3(f)
	default:
		err = fmt.Errorf("unsupported audio format %q", format)
	}
	if err != nil {
		return audio.Waveform{}, types.Decode(err)
	}
	if wave.Empty() {
		return audio.Waveform{}, types.Decode(errors.New("audio contains no samples"))
	}

	normalized, err := wave.Normalized()
	if err != nil {
		return audio.Waveform{}, types.Decode(fmt.Errorf("resample: %w", err))
	}
	return normalized, nil
}

// sniffFormat detects wav or mp3 from the leading bytes and rewinds f.
// It returns "" when the content matches neither.
func sniffFormat(f io.ReadSeeker) (string, error) {
	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("read audio header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind audio: %w", err)
	}

	switch {
	case mtype.Is("audio/wav"):
		return "wav", nil
	case mtype.Is("audio/mpeg"):
		return "mp3", nil
	}
	return "", nil
}
