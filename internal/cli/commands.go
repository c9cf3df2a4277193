package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xpanvictor/vietrans/internal/domains/translation"
)

func newTranscribeCmd(a *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe a wav or mp3 file and translate the transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Clean(args[0])
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("audio file not found: %w", err)
			}
			defer f.Close()

			return a.withSession(cmd.Context(), func(s *session) error {
				res, err := s.service.ProcessAudio(cmd.Context(), filepath.Base(path), f)
				if err != nil {
					return err
				}
				return a.printResult(cmd, res, true)
			})
		},
	}
}

func newTranslateCmd(a *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "translate <text>...",
		Short: "Translate Vietnamese text to English",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return a.withSession(cmd.Context(), func(s *session) error {
				res, err := s.service.TranslateText(cmd.Context(), text)
				if err != nil {
					return err
				}
				return a.printResult(cmd, res, false)
			})
		},
	}
}

type checkReport struct {
	Device             string `json:"device"`
	SpeechBackend      string `json:"speech_backend"`
	TranslationBackend string `json:"translation_backend"`
}

func newCheckCmd(a *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load both models and report the device and backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withSession(cmd.Context(), func(s *session) error {
				report := checkReport{
					Device:             s.models.Device(),
					SpeechBackend:      s.models.SpeechBackend(),
					TranslationBackend: s.models.TranslationBackend(),
				}
				if a.jsonOut {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "device: %s\nspeech: %s\ntranslation: %s\n",
					report.Device, report.SpeechBackend, report.TranslationBackend)
				return nil
			})
		},
	}
}

func (a *appState) printResult(cmd *cobra.Command, res *translation.Result, withSource bool) error {
	if a.jsonOut {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	out := cmd.OutOrStdout()
	if withSource {
		fmt.Fprintf(out, "vi: %s\n", res.TextVI)
		fmt.Fprintf(out, "en: %s\n", res.TextEN)
	} else {
		fmt.Fprintln(out, res.TextEN)
	}
	a.log().Debugf("processed in %.2fs", res.ProcessingTime)
	return nil
}
