package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataPath        string
	MaxRows         int
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka export configuration.
	KafkaExportEnabled bool
	KafkaBrokers       []string
	KafkaSinkTopic     string
	BatchSize          int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	maxRows, err := parseMaxRows()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataPath:        sharedcfg.EnvOrDefault("COLLISIONS_DATA_PATH", "data/Motor_Vehicle_Collisions_-_Crashes.csv"),
		MaxRows:         maxRows,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaExportEnabled: os.Getenv("KAFKA_EXPORT_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "collision-records"),
		BatchSize:          batchSize,
	}

	if cfg.DataPath == "" {
		return nil, errors.New("COLLISIONS_DATA_PATH is required")
	}
	if cfg.KafkaExportEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_EXPORT_ENABLED is true")
	}
	if cfg.KafkaExportEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_EXPORT_ENABLED is true")
	}

	return cfg, nil
}

// parseMaxRows reads the row cap applied when loading the data file.
func parseMaxRows() (int, error) {
	s := os.Getenv("COLLISIONS_MAX_ROWS")
	if s == "" {
		return 100000, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid COLLISIONS_MAX_ROWS: must be a positive integer")
	}
	return n, nil
}
