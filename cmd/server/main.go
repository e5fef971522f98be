package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/kulurunagavardhanreddy/lumio/internal/api"
	"github.com/kulurunagavardhanreddy/lumio/internal/config"
	"github.com/kulurunagavardhanreddy/lumio/internal/mailer"
	"github.com/kulurunagavardhanreddy/lumio/internal/pipeline"
	"github.com/kulurunagavardhanreddy/lumio/internal/store"
	"github.com/kulurunagavardhanreddy/lumio/internal/summarize"
	"github.com/kulurunagavardhanreddy/lumio/internal/transcribe"
	"github.com/kulurunagavardhanreddy/lumio/internal/watch"
	"github.com/kulurunagavardhanreddy/lumio/pkg/executor"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	configPath := flag.String("config", os.Getenv("LUMIO_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open summary database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	backend, err := newSummarizer(cfg)
	if err != nil {
		log.Error("failed to create summarizer", "error", err)
		os.Exit(1)
	}
	stats := summarize.NewStats(time.Hour)
	sum := summarize.Instrumented(backend, stats)
	log.Info("summarizer ready", "backend", sum.Name())

	var transcriber transcribe.Transcriber
	if cfg.TranscriptionEnabled() {
		transcriber, err = transcribe.NewWhisperTranscriber(transcribe.WhisperConfig{
			BinaryPath: cfg.WhisperBinary,
			ModelPath:  cfg.WhisperModel,
			Language:   cfg.WhisperLanguage,
			Threads:    cfg.WhisperThreads,
			TempDir:    cfg.TempDir,
		}, executor.New(), log)
		if err != nil {
			log.Error("failed to configure transcription", "error", err)
			os.Exit(1)
		}
		log.Info("transcription enabled", "model", cfg.WhisperModel)
	} else {
		log.Info("transcription disabled")
	}

	var mail *mailer.Mailer
	if cfg.MailEnabled() {
		mail = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.MailSender, cfg.MailPassword, log)
		log.Info("mail enabled", "sender", cfg.MailSender)
	} else {
		log.Info("mail disabled")
	}

	orch := pipeline.NewOrchestrator(cfg, sum, transcriber, st, log)
	orch.Start()

	var watcher *watch.Watcher
	if cfg.WatchDir != "" {
		if transcriber == nil {
			log.Warn("watch dir configured but transcription is disabled; ignoring", "dir", cfg.WatchDir)
		} else {
			watcher, err = watch.New(cfg.WatchDir, dropHandler(orch, cfg), log)
			if err != nil {
				log.Error("failed to start drop folder watcher", "error", err)
				os.Exit(1)
			}
			go watcher.Run()
		}
	}

	srv := api.NewServer(orch, st, sum, stats, mail, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		if watcher != nil {
			watcher.Close()
		}
		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		sum.Close()
	}()

	log.Info("starting lumio", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newSummarizer(cfg config.Config) (summarize.Summarizer, error) {
	switch cfg.Backend {
	case "gemini":
		return summarize.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	case "mock":
		return &summarize.Mock{}, nil
	default:
		return summarize.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	}
}

// dropHandler submits an audio file from the drop folder as a job.
func dropHandler(orch *pipeline.Orchestrator, cfg config.Config) watch.Handler {
	return func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		filename := filepath.Base(path)
		title := strings.TrimSuffix(filename, filepath.Ext(filename))

		job := pipeline.NewJob(pipeline.SourceAudio, filename, title, pipeline.DefaultRequest(cfg))
		job.SetFileData(data)
		return orch.Submit(job)
	}
}
