package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Forecast snapshot configuration.
	SnapshotPath string

	// On-demand predictor configuration.
	PredictorURL       string
	PredictorEnabled   bool
	PredictorTimeout   time.Duration
	PredictorCacheSize int

	// Chat-log configuration.
	ChatLogBackend    string // "file", "kafka" or "none"
	ChatLogPath       string
	KafkaBrokers      []string
	KafkaChatLogTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	predictorTimeout, err := parseDuration("PREDICTOR_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	predictorURL := os.Getenv("PREDICTOR_URL")
	predictorEnabled := predictorURL != ""
	if v := os.Getenv("PREDICTOR_ENABLED"); v != "" {
		predictorEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SnapshotPath: EnvOrDefault("SNAPSHOT_PATH", "data/predictions_snapshot.csv"),

		PredictorURL:       predictorURL,
		PredictorEnabled:   predictorEnabled,
		PredictorTimeout:   predictorTimeout,
		PredictorCacheSize: parsePredictorCacheSize(),

		ChatLogBackend:    EnvOrDefault("CHATLOG_BACKEND", "file"),
		ChatLogPath:       EnvOrDefault("CHATLOG_PATH", "data/chat_history.csv"),
		KafkaBrokers:      ParseBrokers(EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaChatLogTopic: EnvOrDefault("KAFKA_CHATLOG_TOPIC", "fire-chat-log"),
	}

	if cfg.SnapshotPath == "" {
		return nil, errors.New("SNAPSHOT_PATH is required")
	}
	if cfg.PredictorEnabled && cfg.PredictorURL == "" {
		return nil, errors.New("PREDICTOR_ENABLED is true but PREDICTOR_URL is not set")
	}
	switch cfg.ChatLogBackend {
	case "file":
		if cfg.ChatLogPath == "" {
			return nil, errors.New("CHATLOG_BACKEND is file but CHATLOG_PATH is not set")
		}
	case "kafka":
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("CHATLOG_BACKEND is kafka but KAFKA_BROKERS is not set")
		}
		if cfg.KafkaChatLogTopic == "" {
			return nil, errors.New("CHATLOG_BACKEND is kafka but KAFKA_CHATLOG_TOPIC is not set")
		}
	case "none":
	default:
		return nil, fmt.Errorf("invalid CHATLOG_BACKEND %q (want file, kafka or none)", cfg.ChatLogBackend)
	}

	return cfg, nil
}

// EnvOrDefault returns the environment variable's value, or def when unset.
func EnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBrokers splits a comma-separated broker list, trimming whitespace and
// dropping empty entries.
func ParseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePredictorCacheSize() int {
	if s := os.Getenv("PREDICTOR_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
