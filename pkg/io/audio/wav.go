package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/orcaman/writerseeker"
)

const wavBitDepth = 16

// EncodeWAV renders w as a mono 16-bit PCM RIFF file.
func EncodeWAV(w Waveform) ([]byte, error) {
	if w.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", w.SampleRate)
	}

	out := &writerseeker.WriterSeeker{}
	if err := WriteWAV(out, w); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(out.Reader())
	if err != nil {
		return nil, fmt.Errorf("reading wav into memory: %w", err)
	}
	return data, nil
}

// WriteWAV encodes w into ws; ws must support seeking for the header rewrite.
func WriteWAV(ws io.WriteSeeker, w Waveform) error {
	encoder := wav.NewEncoder(ws, w.SampleRate, wavBitDepth, 1, 1)

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: w.SampleRate},
		Data:           toPCM16(w.Samples),
		SourceBitDepth: wavBitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("encoder write buffer: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encoder close: %w", err)
	}
	return nil
}

// DecodeWAV reads a PCM WAV stream into a mono waveform at its native rate.
func DecodeWAV(r io.ReadSeeker) (Waveform, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Waveform{}, errors.New("not a valid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Waveform{}, fmt.Errorf("read pcm data: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return Waveform{}, errors.New("wav file has no samples")
	}

	channels := int(dec.NumChans)
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		channels = buf.Format.NumChannels
	}
	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return Waveform{}, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	return Waveform{
		Samples:    Downmix(intsToFloat(buf.Data, bitDepth), channels),
		SampleRate: int(dec.SampleRate),
	}, nil
}

func intsToFloat(data []int, bitDepth int) []float32 {
	// 8-bit WAV is unsigned; everything wider is signed
	scale := float32(math.Pow(2, float64(bitDepth-1)))
	out := make([]float32, len(data))
	for i, v := range data {
		if bitDepth == 8 {
			out[i] = float32(v-128) / 128
			continue
		}
		out[i] = float32(v) / scale
	}
	return out
}

func toPCM16(samples []float32) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		out[i] = int(s * math.MaxInt16)
	}
	return out
}
