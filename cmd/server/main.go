package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"scan1c/internal/config"
	"scan1c/internal/handler"
	"scan1c/internal/logger"
	"scan1c/internal/onec"
	"scan1c/internal/pdfpages"
	"scan1c/internal/port"
	"scan1c/internal/recognizer"
	"scan1c/internal/recognizer/gemini"
	"scan1c/internal/recognizer/openrouter"
	"scan1c/internal/repository/postgres"
	"scan1c/internal/router"
	"scan1c/internal/service"
	s3storage "scan1c/internal/storage/s3"
	"scan1c/internal/telegram"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Setup(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Vision models
	recognizer.RegisterProvider(config.ProviderOpenRouter, openrouter.Factory)
	recognizer.RegisterProvider(config.ProviderGemini, gemini.Factory)
	model, err := recognizer.NewFailoverFromConfig(&cfg.Recognizer)
	if err != nil {
		return fmt.Errorf("failed to initialize vision models: %w", err)
	}
	rec := recognizer.New(model, pdfpages.NewExtractor(0), recognizer.Options{
		Temperature:     cfg.Recognizer.Temperature,
		PageConcurrency: cfg.Recognizer.PageConcurrency,
		Retry: recognizer.RetryPolicy{
			MaxAttempts: cfg.Recognizer.MaxAttempts,
			BaseDelay:   cfg.Recognizer.Backoff(),
		},
		Preprocessor: recognizer.Preprocessor{
			MaxDimension: cfg.Recognizer.MaxImageDimension,
			Quality:      cfg.Recognizer.JPEGQuality,
		},
	})
	log.WithField("models", strings.Join(model.Models(), ",")).Info("vision models configured")

	// Optional history and archive
	var repo port.RecognitionRepository
	if cfg.DB.Enabled {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		repo = postgres.NewRecognitionRepo(db)
	}

	var archive port.DocumentArchive
	if cfg.S3.Enabled {
		archive, err = s3storage.NewArchive(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Services
	maxUpload := cfg.Server.MaxUploadMB << 20
	scanSvc := service.NewScanService(rec, repo, archive, service.ScanConfig{
		MaxUploadBytes: maxUpload,
		PresignExpiry:  time.Duration(cfg.S3.PresignExpiry) * time.Second,
		Models:         model.Name(),
	})
	submissionSvc := service.NewSubmissionService(onec.NewClient(&cfg.OneC))

	handlers := router.Handlers{
		Scan:       handler.NewScanHandler(scanSvc, maxUpload),
		Submission: handler.NewSubmissionHandler(submissionSvc),
		Health:     handler.NewHealthHandler(scanSvc),
	}

	// Telegram
	bot, err := newBot(cfg, scanSvc, submissionSvc, maxUpload)
	if err != nil {
		return err
	}
	if bot != nil {
		switch cfg.Telegram.Mode {
		case config.TelegramModeWebhook:
			handlers.Webhook = handler.NewWebhookHandler(bot, cfg.Telegram.WebhookSecret, cfg.Server.PublicURL)
		case config.TelegramModePolling:
			go bot.Poll(ctx)
		}
	}

	r := router.Setup(handlers, cfg.CORS.AllowedOrigins)
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":     cfg.Server.Port,
			"env":      cfg.Server.Environment,
			"telegram": telegramMode(bot, cfg.Telegram.Mode),
			"history":  cfg.DB.Enabled,
			"archive":  cfg.S3.Enabled,
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if handlers.Webhook != nil {
		if err := handlers.Webhook.Wait(shutdownCtx); err != nil {
			log.Warnf("pending telegram updates abandoned: %v", err)
		}
	}
	return nil
}

// newBot returns nil when no token is configured or the bot is switched off.
func newBot(cfg *config.Config, scans service.ScanService, submissions service.SubmissionService, maxUpload int64) (*telegram.Bot, error) {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.Mode == config.TelegramModeOff {
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	log.WithField("bot", api.Self.UserName).Info("telegram bot authorized")
	return telegram.NewBot(api, scans, submissions, telegram.Options{
		PublicURL:    cfg.Server.PublicURL,
		MaxFileBytes: maxUpload,
		HTTPClient:   &http.Client{Timeout: time.Minute},
	}), nil
}

func telegramMode(bot *telegram.Bot, mode string) string {
	if bot == nil {
		return config.TelegramModeOff
	}
	return mode
}
