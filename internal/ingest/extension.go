// Package ingest accepts uploaded audio: it checks the declared format,
// stages the bytes in a per-request temp file and decodes them into a 16 kHz
// mono waveform.
package ingest

import (
	"path/filepath"
	"strings"
	"unicode"
)

var allowedExtensions = map[string]struct{}{
	"wav": {},
	"mp3": {},
}

// Extension returns the lowercased text after the last '.', or "".
func Extension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// IsAllowedExtension reports whether filename ends in .wav or .mp3, ignoring case.
func IsAllowedExtension(filename string) bool {
	ext := Extension(filename)
	if ext == "" {
		return false
	}
	_, ok := allowedExtensions[ext]
	return ok
}

// SecureFilename reduces a client-supplied name to a safe base name made of
// ASCII letters, digits, '.', '_' and '-'. It may return "".
func SecureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('_')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-'):
			b.WriteRune(r)
		}
	}

	safe := strings.TrimLeft(b.String(), "._")
	if safe == "" || safe == "." || safe == ".." {
		return ""
	}
	return safe
}
