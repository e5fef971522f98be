package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected default port 8090, got %q", cfg.Port)
	}
	if cfg.MaxChunkWords != 800 {
		t.Errorf("expected default chunk size 800, got %d", cfg.MaxChunkWords)
	}
	if cfg.MinSentenceLen != 20 {
		t.Errorf("expected default min sentence length 20, got %d", cfg.MinSentenceLen)
	}
	if cfg.BulletMarker != "•" {
		t.Errorf("expected default bullet marker, got %q", cfg.BulletMarker)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected default job TTL 1h, got %s", cfg.JobTTL)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: \"9000\"\nbackend: mock\nmax_chunk_words: 500\nbullet_marker: \"-\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000 from file, got %q", cfg.Port)
	}
	if cfg.Backend != "mock" {
		t.Errorf("expected backend mock, got %q", cfg.Backend)
	}
	if cfg.MaxChunkWords != 500 {
		t.Errorf("expected chunk size 500, got %d", cfg.MaxChunkWords)
	}
	if cfg.BulletMarker != "-" {
		t.Errorf("expected marker -, got %q", cfg.BulletMarker)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"9000\"\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "7777")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7777" {
		t.Errorf("expected env to win, got %q", cfg.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate_BackendCredentials(t *testing.T) {
	cfg, _ := Load("")

	cfg.Backend = "openai"
	cfg.OpenAIAPIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for openai backend without key")
	}
	cfg.OpenAIAPIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.Backend = "gemini"
	cfg.GeminiAPIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for gemini backend without key")
	}

	cfg.Backend = "mock"
	if err := cfg.Validate(); err != nil {
		t.Errorf("mock backend needs no credentials: %v", err)
	}

	cfg.Backend = "bart"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestValidate_WhisperPairing(t *testing.T) {
	cfg, _ := Load("")
	cfg.Backend = "mock"

	cfg.WhisperBinary = "/usr/local/bin/whisper-cli"
	cfg.WhisperModel = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for binary without model")
	}

	cfg.WhisperModel = "/models/ggml-base.bin"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !cfg.TranscriptionEnabled() {
		t.Error("expected transcription enabled")
	}
}

func TestValidate_LengthBounds(t *testing.T) {
	cfg, _ := Load("")
	cfg.Backend = "mock"
	cfg.DefaultMinLength = 200
	cfg.DefaultMaxLength = 130
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when min exceeds max")
	}
}

func TestMailEnabled(t *testing.T) {
	cfg, _ := Load("")
	if cfg.MailEnabled() {
		t.Error("mail should be disabled without credentials")
	}
	cfg.MailSender = "notes@example.com"
	cfg.MailPassword = "app-password"
	if !cfg.MailEnabled() {
		t.Error("mail should be enabled with credentials")
	}
}
