package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port   string `yaml:"port"`
	APIKey string `yaml:"api_key"` // Empty disables bearer auth.

	// Summarizer backend: openai, gemini or mock.
	Backend       string `yaml:"backend"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIModel   string `yaml:"openai_model"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`

	// Transcription (optional; audio uploads are rejected when unset).
	WhisperBinary   string `yaml:"whisper_binary"`
	WhisperModel    string `yaml:"whisper_model"`
	WhisperLanguage string `yaml:"whisper_language"`
	WhisperThreads  int    `yaml:"whisper_threads"`

	// Paths
	TempDir  string `yaml:"temp_dir"`
	WatchDir string `yaml:"watch_dir"` // Empty disables the drop folder.
	DBPath   string `yaml:"db_path"`

	// Worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Summary defaults
	MaxChunkWords    int    `yaml:"max_chunk_words"`
	DefaultMaxLength int    `yaml:"default_max_length"`
	DefaultMinLength int    `yaml:"default_min_length"`
	MinSentenceLen   int    `yaml:"min_sentence_len"`
	BulletMarker     string `yaml:"bullet_marker"`

	// Job state
	JobTTL time.Duration `yaml:"job_ttl"`

	// Email (optional; the feature is disabled without credentials).
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	MailSender   string `yaml:"mail_sender"`
	MailPassword string `yaml:"mail_password"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)
	applyFloors(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		Port:                 "8090",
		Backend:              "openai",
		OpenAIModel:          "gpt-4o-mini",
		GeminiModel:          "gemini-2.5-flash",
		WhisperLanguage:      "en",
		WhisperThreads:       4,
		TempDir:              os.TempDir(),
		DBPath:               "lumio.db",
		WorkerCount:          4,
		MaxQueueSize:         100,
		MaxUploadBytes:       52428800, // 50MB
		MaxChunkWords:        800,
		DefaultMaxLength:     130,
		DefaultMinLength:     30,
		MinSentenceLen:       20,
		BulletMarker:         "•",
		JobTTL:               1 * time.Hour,
		SMTPHost:             "smtp.gmail.com",
		SMTPPort:             465,
		PDFFallbackPdftotext: true,
	}
}

func applyEnv(cfg *Config) {
	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("LUMIO_API_KEY", cfg.APIKey)

	cfg.Backend = envOr("SUMMARIZER_BACKEND", cfg.Backend)
	cfg.OpenAIAPIKey = envOr("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = envOr("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAIBaseURL = envOr("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.GeminiAPIKey = envOr("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = envOr("GEMINI_MODEL", cfg.GeminiModel)

	cfg.WhisperBinary = envOr("WHISPER_BINARY", cfg.WhisperBinary)
	cfg.WhisperModel = envOr("WHISPER_MODEL", cfg.WhisperModel)
	cfg.WhisperLanguage = envOr("WHISPER_LANGUAGE", cfg.WhisperLanguage)
	cfg.WhisperThreads = envInt("WHISPER_THREADS", cfg.WhisperThreads)

	cfg.TempDir = envOr("TEMP_DIR", cfg.TempDir)
	cfg.WatchDir = envOr("WATCH_DIR", cfg.WatchDir)
	cfg.DBPath = envOr("DB_PATH", cfg.DBPath)

	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)

	cfg.MaxChunkWords = envInt("MAX_CHUNK_WORDS", cfg.MaxChunkWords)
	cfg.DefaultMaxLength = envInt("DEFAULT_MAX_LENGTH", cfg.DefaultMaxLength)
	cfg.DefaultMinLength = envInt("DEFAULT_MIN_LENGTH", cfg.DefaultMinLength)
	cfg.MinSentenceLen = envInt("MIN_SENTENCE_LEN", cfg.MinSentenceLen)
	cfg.BulletMarker = envOr("BULLET_MARKER", cfg.BulletMarker)

	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)

	cfg.SMTPHost = envOr("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = envInt("SMTP_PORT", cfg.SMTPPort)
	cfg.MailSender = envOr("MAIL_SENDER_EMAIL", cfg.MailSender)
	cfg.MailPassword = envOr("MAIL_SENDER_PASS", cfg.MailPassword)

	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)
}

func applyFloors(cfg *Config) {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxChunkWords <= 0 {
		cfg.MaxChunkWords = 800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
}

func (c Config) Validate() error {
	switch c.Backend {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai backend")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini backend")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown summarizer backend: %q", c.Backend)
	}

	if c.DefaultMinLength > c.DefaultMaxLength {
		return fmt.Errorf("default_min_length (%d) exceeds default_max_length (%d)",
			c.DefaultMinLength, c.DefaultMaxLength)
	}

	// Whisper is optional but must be complete when configured.
	if (c.WhisperBinary == "") != (c.WhisperModel == "") {
		return fmt.Errorf("whisper_binary and whisper_model must be set together")
	}

	return nil
}

// TranscriptionEnabled reports whether audio uploads can be processed.
func (c Config) TranscriptionEnabled() bool {
	return c.WhisperBinary != "" && c.WhisperModel != ""
}

// MailEnabled reports whether the email share feature is configured.
func (c Config) MailEnabled() bool {
	return c.MailSender != "" && c.MailPassword != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
