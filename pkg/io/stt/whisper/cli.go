package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strconv"
	"strings"

	"github.com/xpanvictor/vietrans/pkg/Logger"
	"github.com/xpanvictor/vietrans/pkg/io/audio"
	"github.com/xpanvictor/vietrans/pkg/io/checkpoint"
	"github.com/xpanvictor/vietrans/pkg/io/stt"
)

// ignoredOptions lists the stt.Options fields whisper-cli cannot apply.
var ignoredOptions = []string{"max_length", "no_repeat_ngram_size"}

// CLIEngine runs a ggml checkpoint through a whisper.cpp whisper-cli binary.
type CLIEngine struct {
	Executable string
	Threads    int
	Logger     *Logger.Logger

	modelPath string
	useGPU    bool
}

func NewCLIEngine(executable string, threads int, logger *Logger.Logger) *CLIEngine {
	if logger == nil {
		logger = Logger.NewNop()
	}
	return &CLIEngine{Executable: executable, Threads: threads, Logger: logger}
}

func (e *CLIEngine) Name() string {
	return "whisper-cli"
}

func (e *CLIEngine) Load(_ context.Context, ckpt checkpoint.Checkpoint, device string) error {
	if ckpt.Format != checkpoint.FormatGGML || ckpt.ModelFile == "" {
		return fmt.Errorf("whisper-cli backend needs a ggml checkpoint, got %s", ckpt.Format)
	}

	resolved, err := resolveExecutable(e.Executable)
	if err != nil {
		return fmt.Errorf("whisper engine missing or not executable: %w", err)
	}

	e.Executable = resolved
	e.modelPath = ckpt.ModelFile
	e.useGPU = device != "cpu"
	e.Logger.Infof("whisper-cli %s ready with model %s (gpu=%t)", resolved, ckpt.ModelFile, e.useGPU)
	e.Logger.Infof("whisper-cli has no flags for %s; those options are ignored", strings.Join(ignoredOptions, ", "))
	return nil
}

func (e *CLIEngine) Transcribe(ctx context.Context, wave audio.Waveform, opts stt.Options) (string, error) {
	if e.modelPath == "" {
		return "", ErrNotLoaded
	}

	input, err := os.CreateTemp("", "vietrans-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp wav: %w", err)
	}
	inputPath := input.Name()
	defer os.Remove(inputPath)

	writeErr := audio.WriteWAV(input, wave)
	closeErr := input.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		return "", fmt.Errorf("write temp wav: %w", err)
	}

	outBase := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	txtOut := outBase + ".txt"
	defer os.Remove(txtOut)

	args := e.args(inputPath, outBase, opts)
	cmd := exec.CommandContext(ctx, e.Executable, args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	e.Logger.Debugf("running whisper engine %s %v", e.Executable, args)
	if err := cmd.Run(); err != nil {
		errText := strings.TrimSpace(stderr.String())
		if isMissingSharedLibraryError(errText) {
			return "", fmt.Errorf("whisper engine at %s is missing required shared libraries (%s)", e.Executable, errText)
		}
		return "", fmt.Errorf("whisper transcribe failed: %w (%s)", err, errText)
	}

	content, err := os.ReadFile(txtOut)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}
	return strings.TrimSpace(string(content)), nil
}

// args builds the whisper-cli invocation. Temperature fallback is disabled
// so decoding stays deterministic beam search.
func (e *CLIEngine) args(inputPath, outBase string, opts stt.Options) []string {
	args := []string{"-m", e.modelPath, "-f", inputPath, "-nt", "-nf", "-otxt", "-of", outBase}

	lang := strings.TrimSpace(opts.Language)
	if lang != "" && lang != "auto" {
		args = append(args, "-l", lang)
	}
	if opts.NumBeams > 0 {
		args = append(args, "-bs", strconv.Itoa(opts.NumBeams))
	}
	if e.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(e.Threads))
	}
	if !e.useGPU {
		args = append(args, "-ng")
	}
	return args
}

func resolveExecutable(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("executable path is empty")
	}
	if !strings.ContainsRune(name, os.PathSeparator) {
		return exec.LookPath(name)
	}
	return name, ensureExecutable(name)
}

func ensureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if goruntime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}

func isMissingSharedLibraryError(stderr string) bool {
	value := strings.ToLower(strings.TrimSpace(stderr))
	if value == "" {
		return false
	}

	patterns := []string{
		"error while loading shared libraries",
		"cannot open shared object file",
		"dyld: library not loaded",
		"image not found",
	}
	for _, pattern := range patterns {
		if strings.Contains(value, pattern) {
			return true
		}
	}
	return false
}
