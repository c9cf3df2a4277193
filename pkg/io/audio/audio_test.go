package audio

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sine(n, rate int, freq float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

func TestResampleSameRateCopies(t *testing.T) {
	t.Parallel()

	input := []float32{0.1, 0.2, 0.3}
	out, err := Resample(input, 16000, 16000)
	require.NoError(t, err)
	require.Equal(t, input, out)

	out[0] = 1
	require.InDelta(t, 0.1, input[0], 1e-9)
}

func TestResampleDownsample(t *testing.T) {
	t.Parallel()

	input := sine(4410, 44100, 440)
	out, err := Resample(input, 44100, 16000)
	require.NoError(t, err)
	require.Len(t, out, int(float64(len(input))*16000/44100))
}

func TestResampleUpsampleInterpolates(t *testing.T) {
	t.Parallel()

	out, err := Resample([]float32{0, 1}, 8000, 16000)
	require.NoError(t, err)
	require.Len(t, out, 4)
	require.InDelta(t, 0.0, out[0], 1e-6)
	require.InDelta(t, 0.5, out[1], 1e-6)
	require.InDelta(t, 1.0, out[2], 1e-6)
	require.InDelta(t, 1.0, out[3], 1e-6)
}

func TestResampleInvalidRates(t *testing.T) {
	t.Parallel()

	_, err := Resample([]float32{1}, 0, 16000)
	require.Error(t, err)
	_, err = Resample([]float32{1}, 16000, -1)
	require.Error(t, err)
}

func TestResampleEmpty(t *testing.T) {
	t.Parallel()

	out, err := Resample(nil, 48000, 16000)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestDownmixAveragesChannels(t *testing.T) {
	t.Parallel()

	mono := Downmix([]float32{1, 0, 0.5, 0.5, -1, 1}, 2)
	require.Equal(t, []float32{0.5, 0.5, 0}, mono)

	same := []float32{0.1, 0.2}
	require.Equal(t, same, Downmix(same, 1))
}

func TestWaveformNormalized(t *testing.T) {
	t.Parallel()

	w := Waveform{Samples: sine(8000, 8000, 200), SampleRate: 8000}
	n, err := w.Normalized()
	require.NoError(t, err)
	require.Equal(t, TargetSampleRate, n.SampleRate)
	require.Len(t, n.Samples, 16000)
	require.Equal(t, time.Second, n.Duration())

	already := Waveform{Samples: []float32{0}, SampleRate: TargetSampleRate}
	same, err := already.Normalized()
	require.NoError(t, err)
	require.Equal(t, already, same)
}

func TestWAVRoundTripPreservesShape(t *testing.T) {
	t.Parallel()

	original := Waveform{Samples: sine(1600, 16000, 440), SampleRate: 16000}

	data, err := EncodeWAV(original)
	require.NoError(t, err)
	require.Equal(t, "RIFF", string(data[0:4]))
	require.Equal(t, "WAVE", string(data[8:12]))

	decoded, err := DecodeWAV(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 16000, decoded.SampleRate)
	require.Len(t, decoded.Samples, len(original.Samples))
	for i := range original.Samples {
		require.InDelta(t, original.Samples[i], decoded.Samples[i], 1e-3)
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := DecodeWAV(bytes.NewReader([]byte("definitely not a riff file")))
	require.Error(t, err)
}

func TestEncodeWAVRejectsInvalidRate(t *testing.T) {
	t.Parallel()

	_, err := EncodeWAV(Waveform{Samples: []float32{0}, SampleRate: 0})
	require.Error(t, err)
}

func TestDecodeMP3RejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := DecodeMP3(bytes.NewReader([]byte("definitely not an mp3 stream")))
	require.Error(t, err)

	_, err = DecodeMP3(bytes.NewReader(nil))
	require.Error(t, err)
}
