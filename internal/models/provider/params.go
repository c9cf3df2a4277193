package provider

import (
	"github.com/xpanvictor/vietrans/pkg/io/mt"
	"github.com/xpanvictor/vietrans/pkg/io/stt"
)

// SpeechParams are the fixed decoding settings for Vietnamese transcription.
var SpeechParams = stt.Options{
	Language:          "vi",
	NumBeams:          2,
	MaxLength:         448,
	NoRepeatNgramSize: 3,
}

// TranslationParams are the fixed generation settings for vi→en translation.
// Inputs are truncated to MaxInputTokens.
var TranslationParams = mt.Options{
	NumBeams:       4,
	LengthPenalty:  0.6,
	MaxLength:      512,
	MaxInputTokens: 512,
	Padding:        true,
}
