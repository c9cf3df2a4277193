package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always emits 16-bit little-endian interleaved stereo.
const (
	mp3Channels       = 2
	mp3BytesPerSample = 2
)

// DecodeMP3 reads an MP3 stream into a mono waveform at its native rate.
func DecodeMP3(r io.Reader) (Waveform, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return Waveform{}, fmt.Errorf("open mp3 stream: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return Waveform{}, fmt.Errorf("read mp3 frames: %w", err)
	}

	frame := mp3Channels * mp3BytesPerSample
	raw = raw[:len(raw)-len(raw)%frame]
	if len(raw) == 0 {
		return Waveform{}, errors.New("mp3 file has no samples")
	}

	interleaved := make([]float32, len(raw)/mp3BytesPerSample)
	for i := range interleaved {
		v := int16(binary.LittleEndian.Uint16(raw[i*mp3BytesPerSample:]))
		interleaved[i] = float32(v) / 32768
	}

	return Waveform{
		Samples:    Downmix(interleaved, mp3Channels),
		SampleRate: dec.SampleRate(),
	}, nil
}
