package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kulurunagavardhanreddy/lumio/pkg/executor"
)

// WhisperTranscriber drives a whisper.cpp binary. Uploads are first
// normalized to 16 kHz mono WAV with ffmpeg, which is the input format
// whisper expects.
type WhisperTranscriber struct {
	binaryPath string
	modelPath  string
	language   string
	threads    int
	tempDir    string

	exec executor.Executor
	log  *slog.Logger
}

type WhisperConfig struct {
	BinaryPath string
	ModelPath  string
	Language   string
	Threads    int
	TempDir    string
}

func NewWhisperTranscriber(cfg WhisperConfig, exec executor.Executor, log *slog.Logger) (*WhisperTranscriber, error) {
	if cfg.BinaryPath == "" {
		return nil, fmt.Errorf("whisper binary path is required")
	}
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("whisper model path is required")
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Threads <= 0 {
		cfg.Threads = 4
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &WhisperTranscriber{
		binaryPath: cfg.BinaryPath,
		modelPath:  cfg.ModelPath,
		language:   cfg.Language,
		threads:    cfg.Threads,
		tempDir:    cfg.TempDir,
		exec:       exec,
		log:        log,
	}, nil
}

// TranscribeFile converts audioPath to WAV, runs whisper, and returns the
// transcript. All intermediate files live in a per-call temp directory
// that is removed best-effort afterwards.
func (t *WhisperTranscriber) TranscribeFile(ctx context.Context, audioPath string) (string, error) {
	workDir, err := os.MkdirTemp(t.tempDir, "transcribe-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer t.cleanupDir(workDir)

	wavPath, err := t.convertToWAV(ctx, audioPath, workDir)
	if err != nil {
		return "", fmt.Errorf("convert audio: %w", err)
	}

	outputPrefix := filepath.Join(workDir, "transcript")
	args := []string{
		"-m", t.modelPath,
		"-f", wavPath,
		"-otxt",
		"-l", t.language,
		"-t", strconv.Itoa(t.threads),
		"-np",
		"--output-file", outputPrefix,
	}
	if _, err := t.exec.Execute(ctx, t.binaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	raw, err := os.ReadFile(outputPrefix + ".txt")
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	transcript := strings.TrimSpace(string(raw))
	t.log.Info("transcription completed", "audio", audioPath, "chars", len(transcript))
	return transcript, nil
}

// convertToWAV produces a 16 kHz mono PCM WAV inside workDir.
func (t *WhisperTranscriber) convertToWAV(ctx context.Context, audioPath, workDir string) (string, error) {
	wavPath := filepath.Join(workDir, "audio.wav")
	args := []string{
		"-i", audioPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		wavPath,
	}
	if _, err := t.exec.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", fmt.Errorf("ffmpeg: %w", err)
	}
	return wavPath, nil
}

// cleanupDir removes a work directory. Failures are logged, never fatal.
func (t *WhisperTranscriber) cleanupDir(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		t.log.Warn("failed to clean up temp dir", "dir", dir, "error", err)
	}
}
