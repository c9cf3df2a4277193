// Package audio holds the in-memory waveform passed from ingestion to the
// speech backends, plus the resampling and WAV helpers both sides share.
package audio

import "time"

// TargetSampleRate is the rate every speech backend expects.
const TargetSampleRate = 16000

// Waveform is mono float samples in [-1, 1] at SampleRate Hz.
type Waveform struct {
	Samples    []float32
	SampleRate int
}

func (w Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(w.Samples)) * time.Second / time.Duration(w.SampleRate)
}

func (w Waveform) Empty() bool {
	return len(w.Samples) == 0
}

// Normalized returns w at TargetSampleRate, resampling only when needed.
func (w Waveform) Normalized() (Waveform, error) {
	if w.SampleRate == TargetSampleRate {
		return w, nil
	}
	samples, err := Resample(w.Samples, w.SampleRate, TargetSampleRate)
	if err != nil {
		return Waveform{}, err
	}
	return Waveform{Samples: samples, SampleRate: TargetSampleRate}, nil
}

// Downmix averages interleaved channels into one.
func Downmix(interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}
