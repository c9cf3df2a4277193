// Package checkpoint inspects pretrained model directories on disk before
// they are handed to an inference backend.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Kind string

const (
	KindSpeech      Kind = "speech"
	KindTranslation Kind = "translation"
)

type Format string

const (
	// FormatTransformers is a Hugging Face style directory with config.json.
	FormatTransformers Format = "transformers"
	// FormatGGML is a whisper.cpp model file.
	FormatGGML Format = "ggml"
)

var (
	ErrMissing   = errors.New("checkpoint not found")
	ErrMalformed = errors.New("checkpoint malformed")
)

var tokenizerFiles = []string{"tokenizer_config.json", "source.spm", "vocab.json", "tokenizer.json"}

// Checkpoint describes a validated model location.
type Checkpoint struct {
	Kind      Kind
	Path      string
	Format    Format
	ModelType string
	// ModelFile is set for ggml checkpoints; it is the .bin to load.
	ModelFile string
	Files     []string
}

func (c Checkpoint) String() string {
	if c.ModelType != "" {
		return fmt.Sprintf("%s %s checkpoint %s (%s)", c.Format, c.Kind, c.Path, c.ModelType)
	}
	return fmt.Sprintf("%s %s checkpoint %s", c.Format, c.Kind, c.Path)
}

// Inspect validates path as a checkpoint of the given kind.
func Inspect(path string, kind Kind) (Checkpoint, error) {
	if strings.TrimSpace(path) == "" {
		return Checkpoint{}, fmt.Errorf("%w: empty %s model path", ErrMissing, kind)
	}

	clean := filepath.Clean(path)
	info, err := os.Stat(clean)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Checkpoint{}, fmt.Errorf("%w: %s", ErrMissing, clean)
		}
		return Checkpoint{}, fmt.Errorf("stat %s model path: %w", kind, err)
	}

	if !info.IsDir() {
		if isGGMLFile(clean) {
			return Checkpoint{
				Kind:      kind,
				Path:      filepath.Dir(clean),
				Format:    FormatGGML,
				ModelFile: clean,
				Files:     []string{filepath.Base(clean)},
			}, nil
		}
		return Checkpoint{}, fmt.Errorf("%w: %s is a file, expected a model directory or ggml .bin", ErrMalformed, clean)
	}

	entries, err := os.ReadDir(clean)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("read %s model directory: %w", kind, err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if contains(files, "config.json") {
		return inspectTransformers(clean, kind, files)
	}

	if ggml := firstGGML(files); ggml != "" {
		return Checkpoint{
			Kind:      kind,
			Path:      clean,
			Format:    FormatGGML,
			ModelFile: filepath.Join(clean, ggml),
			Files:     files,
		}, nil
	}

	return Checkpoint{}, fmt.Errorf("%w: %s has neither config.json nor a ggml model", ErrMalformed, clean)
}

func inspectTransformers(dir string, kind Kind, files []string) (Checkpoint, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		return Checkpoint{}, fmt.Errorf("read config.json: %w", err)
	}

	var cfg struct {
		ModelType string `json:"model_type"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Checkpoint{}, fmt.Errorf("%w: %s/config.json: %v", ErrMalformed, dir, err)
	}

	switch kind {
	case KindSpeech:
		if !contains(files, "preprocessor_config.json") {
			return Checkpoint{}, fmt.Errorf("%w: %s is missing preprocessor_config.json", ErrMalformed, dir)
		}
	case KindTranslation:
		if !containsAny(files, tokenizerFiles) {
			return Checkpoint{}, fmt.Errorf("%w: %s has no tokenizer files (%s)", ErrMalformed, dir, strings.Join(tokenizerFiles, ", "))
		}
	}

	return Checkpoint{
		Kind:      kind,
		Path:      dir,
		Format:    FormatTransformers,
		ModelType: cfg.ModelType,
		Files:     files,
	}, nil
}

func isGGMLFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".bin")
}

func firstGGML(files []string) string {
	for _, name := range files {
		if strings.HasPrefix(strings.ToLower(name), "ggml") && isGGMLFile(name) {
			return name
		}
	}
	return ""
}

func contains(files []string, name string) bool {
	i := sort.SearchStrings(files, name)
	return i < len(files) && files[i] == name
}

func containsAny(files []string, names []string) bool {
	for _, name := range names {
		if contains(files, name) {
			return true
		}
	}
	return false
}
