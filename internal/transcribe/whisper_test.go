package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeExecutor records invocations and simulates ffmpeg/whisper output
// by writing the files their real counterparts would produce.
type fakeExecutor struct {
	calls      [][]string
	transcript string
	failOn     string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if name == f.failOn {
		return "", fmt.Errorf("command %q failed: exit status 1", name)
	}
	switch name {
	case "ffmpeg":
		// Last argument is the output WAV path.
		out := args[len(args)-1]
		return "", os.WriteFile(out, []byte("RIFF"), 0644)
	default:
		// whisper: find --output-file prefix and write prefix.txt.
		for i, a := range args {
			if a == "--output-file" && i+1 < len(args) {
				return "", os.WriteFile(args[i+1]+".txt", []byte(f.transcript), 0644)
			}
		}
		return "", fmt.Errorf("missing --output-file")
	}
}

func newTestTranscriber(t *testing.T, exec *fakeExecutor) *WhisperTranscriber {
	t.Helper()
	tr, err := NewWhisperTranscriber(WhisperConfig{
		BinaryPath: "whisper-cli",
		ModelPath:  "ggml-base.bin",
		TempDir:    t.TempDir(),
	}, exec, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tr
}

func TestTranscribeFile_HappyPath(t *testing.T) {
	exec := &fakeExecutor{transcript: "  hello from the audio clip \n"}
	tr := newTestTranscriber(t, exec)

	got, err := tr.TranscribeFile(context.Background(), "clip.mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello from the audio clip" {
		t.Errorf("expected trimmed transcript, got %q", got)
	}

	if len(exec.calls) != 2 {
		t.Fatalf("expected ffmpeg then whisper, got %d calls", len(exec.calls))
	}
	if exec.calls[0][0] != "ffmpeg" {
		t.Errorf("expected ffmpeg first, got %q", exec.calls[0][0])
	}
	if exec.calls[1][0] != "whisper-cli" {
		t.Errorf("expected whisper second, got %q", exec.calls[1][0])
	}

	ffmpegArgs := strings.Join(exec.calls[0], " ")
	for _, want := range []string{"-ar 16000", "-ac 1", "pcm_s16le"} {
		if !strings.Contains(ffmpegArgs, want) {
			t.Errorf("ffmpeg args missing %q: %s", want, ffmpegArgs)
		}
	}
}

func TestTranscribeFile_FfmpegFailure(t *testing.T) {
	exec := &fakeExecutor{failOn: "ffmpeg"}
	tr := newTestTranscriber(t, exec)

	_, err := tr.TranscribeFile(context.Background(), "clip.mp3")
	if err == nil || !strings.Contains(err.Error(), "convert audio") {
		t.Fatalf("expected convert audio error, got %v", err)
	}
}

func TestTranscribeFile_WhisperFailure(t *testing.T) {
	exec := &fakeExecutor{failOn: "whisper-cli"}
	tr := newTestTranscriber(t, exec)

	_, err := tr.TranscribeFile(context.Background(), "clip.wav")
	if err == nil || !strings.Contains(err.Error(), "whisper transcribe") {
		t.Fatalf("expected whisper error, got %v", err)
	}
}

func TestTranscribeFile_TempDirRemoved(t *testing.T) {
	exec := &fakeExecutor{transcript: "text"}
	base := t.TempDir()
	tr, err := NewWhisperTranscriber(WhisperConfig{
		BinaryPath: "whisper-cli",
		ModelPath:  "ggml-base.bin",
		TempDir:    base,
	}, exec, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tr.TranscribeFile(context.Background(), "clip.ogg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatalf("read temp base: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "transcribe-") {
			t.Errorf("work dir %s not cleaned up", filepath.Join(base, e.Name()))
		}
	}
}

func TestNewWhisperTranscriber_RequiredFields(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if _, err := NewWhisperTranscriber(WhisperConfig{ModelPath: "m"}, &fakeExecutor{}, log); err == nil {
		t.Error("expected error for missing binary path")
	}
	if _, err := NewWhisperTranscriber(WhisperConfig{BinaryPath: "b"}, &fakeExecutor{}, log); err == nil {
		t.Error("expected error for missing model path")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"talk.mp3", true},
		{"talk.WAV", true},
		{"talk.m4a", true},
		{"talk.ogg", true},
		{"talk.flac", true},
		{"talk.aac", true},
		{"talk.mp4", false},
		{"talk.txt", false},
		{"talk", false},
	}
	for _, tc := range cases {
		if got := IsSupportedExtension(tc.name); got != tc.want {
			t.Errorf("IsSupportedExtension(%q): expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
