// Command chatd serves the wildfire forecast chat API. It loads the
// prediction snapshot at startup and answers questions over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	chatlogadapter "github.com/cerradowatch/fire-risk-chat/internal/adapter/chatlog"
	httpadapter "github.com/cerradowatch/fire-risk-chat/internal/adapter/http"
	kafkaadapter "github.com/cerradowatch/fire-risk-chat/internal/adapter/kafka"
	"github.com/cerradowatch/fire-risk-chat/internal/adapter/predictor"
	"github.com/cerradowatch/fire-risk-chat/internal/adapter/snapshot"
	"github.com/cerradowatch/fire-risk-chat/internal/config"
	"github.com/cerradowatch/fire-risk-chat/internal/domain"
	"github.com/cerradowatch/fire-risk-chat/internal/interpreter"
	"github.com/cerradowatch/fire-risk-chat/internal/observability"
)

func main() {
	// Local development convenience; the file is optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	regions := domain.NewRegionDirectory()
	table, err := snapshot.NewLoader(regions, logger).LoadFile(cfg.SnapshotPath)
	if err != nil {
		logger.Error("failed to load snapshot", "error", err, "path", cfg.SnapshotPath)
		os.Exit(1)
	}
	metrics.SnapshotRows.Set(float64(table.Len()))
	logger.Info("snapshot loaded", "path", cfg.SnapshotPath, "rows", table.Len())

	// On-demand predictor (feature-flagged via PREDICTOR_ENABLED / PREDICTOR_URL).
	var pred domain.Predictor
	if cfg.PredictorEnabled {
		client := predictor.NewClient(cfg.PredictorURL, cfg.PredictorTimeout, logger, metrics)
		pred = predictor.NewCachedPredictor(client, cfg.PredictorCacheSize, metrics)
		metrics.PredictorEnabled.Set(1)
		logger.Info("on-demand predictor enabled", "cache_size", cfg.PredictorCacheSize, "timeout", cfg.PredictorTimeout)
	} else {
		logger.Info("on-demand predictor disabled")
	}

	var chatlog interpreter.ChatLogger
	var kafkaWriter *kafkaadapter.Writer
	switch cfg.ChatLogBackend {
	case "file":
		chatlog = chatlogadapter.NewFileWriter(cfg.ChatLogPath)
		logger.Info("chat log writing to file", "path", cfg.ChatLogPath)
	case "kafka":
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		chatlog = kafkaWriter
		logger.Info("chat log writing to kafka", "topic", cfg.KafkaChatLogTopic)
	default:
		logger.Info("chat log disabled")
	}

	interp := interpreter.New(table, pred, chatlog, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, interp, interp, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
