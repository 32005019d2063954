package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"obesity-risk/internal/assessment"
	"obesity-risk/internal/config"
	"obesity-risk/internal/model"
	"obesity-risk/internal/performance"
	"obesity-risk/internal/platform/logging"
	"obesity-risk/internal/platform/metrics"
	"obesity-risk/internal/platform/telegram"
	"obesity-risk/internal/report"
	"obesity-risk/internal/snapshot"
	"obesity-risk/internal/story"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(cfg.LogLevel, cfg.LogOutput(), os.Stdout)
}

func runServer(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg)
	m := metrics.New()

	// 1. Model, loaded once; a failure leaves the service up but unavailable.
	svc := newAssessmentService(cfg, logger, m)
	m.SetModelLoaded(svc.Available())

	// 2. Reports
	reports, err := newReportService(cfg, logger)
	if err != nil {
		return err
	}

	// 3. Database (optional)
	var snapshots *snapshot.Service
	var db *sqlx.DB
	if cfg.SnapshotsEnabled() {
		db, err = connectDB(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("could not connect to database; continuing without snapshots")
		} else {
			defer db.Close()
			if err := migrateUp(cfg); err != nil {
				logger.Error().Err(err).Msg("migration up failed")
			} else {
				logger.Info().Msg("migrations applied")
			}
			snapshots, err = snapshot.NewService(snapshot.NewRepository(db), cfg.SnapshotBaseName, logger)
			if err != nil {
				return err
			}
		}
	}

	a := &app{
		logger:      logger,
		cfg:         cfg,
		assessment:  svc,
		reports:     reports,
		performance: performance.NewService(cfg.ReportsDir, "/api/performance/figures"),
		story:       story.NewService(cfg.DatasetPath, logger),
		snapshots:   snapshots,
		db:          db,
		metrics:     m,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Bool("model_available", svc.Available()).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newAssessmentService(cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) *assessment.Service {
	opts := []assessment.Option{
		assessment.WithLogger(logger),
		assessment.WithObserver(m),
	}

	artifacts, err := model.LoadArtifacts(model.Paths{
		ModelPath:        cfg.ModelPath,
		LabelEncoderPath: cfg.LabelEncoderPath,
		ServerURL:        cfg.ModelServerURL,
		Timeout:          cfg.ModelTimeout,
	})
	if err != nil {
		logger.Error().Err(err).Msg("model artifacts could not be loaded")
		return assessment.NewService(nil, nil, append(opts, assessment.WithLoadError(err))...)
	}

	if artifacts.Pipeline != nil {
		if diffs := model.SchemaMismatch(artifacts.Pipeline.FeatureNamesIn); len(diffs) > 0 {
			err := fmt.Errorf("model schema does not match the encoder: %v", diffs)
			logger.Error().Strs("diffs", diffs).Msg("model schema mismatch")
			return assessment.NewService(nil, nil, append(opts, assessment.WithLoadError(err))...)
		}
	}

	logger.Info().
		Strs("classes", artifacts.Decoder.Classes()).
		Bool("model_server", artifacts.Pipeline == nil).
		Msg("model artifacts loaded")
	return assessment.NewService(artifacts.Classifier, artifacts.Decoder, opts...)
}

func newReportService(cfg *config.Config, logger zerolog.Logger) (*report.Service, error) {
	if !cfg.DeliveryEnabled() {
		logger.Info().Msg("TELEGRAM_BOT_TOKEN/DOCTOR_CHAT_ID not set; reports will not be delivered")
		return report.NewService(nil, 0, cfg.ReportFontPath, logger), nil
	}
	chatID, err := strconv.ParseInt(cfg.DoctorChatID, 10, 64)
	if err != nil || chatID == 0 {
		return nil, fmt.Errorf("DOCTOR_CHAT_ID must be a non-zero integer, got %q", cfg.DoctorChatID)
	}
	return report.NewService(telegram.NewClient(cfg.TelegramToken), chatID, cfg.ReportFontPath, logger), nil
}
