package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// HKO source endpoints.
	BaseURL      string
	WeatherPath  string
	RainfallPath string
	WarningsPath string
	UserAgent    string
	FetchTimeout time.Duration

	// Pipeline cadence and retention.
	UpdateInterval time.Duration
	RetentionHours int
	DataDir        string
	DumpSnapshots  bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional Kafka snapshot sink.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from the environment (and a .env file when
// present), applying defaults where unset.
func Load() (*Config, error) {
	_ = godotenv.Load()

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	intervalMinutes, err := parsePositiveInt("UPDATE_INTERVAL", 5)
	if err != nil {
		return nil, err
	}

	retentionHours, err := parsePositiveInt("RETENTION_HOURS", 24)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	kafkaBrokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(kafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		BaseURL:      envOrDefault("HKO_BASE_URL", "https://www.hko.gov.hk"),
		WeatherPath:  envOrDefault("HKO_WEATHER_PATH", "/tc/index.html"),
		RainfallPath: envOrDefault("HKO_RAINFALL_PATH", "/textonly/current/rainfall_sr_uc.htm"),
		WarningsPath: envOrDefault("HKO_WARNINGS_PATH", "/tc/index.html"),
		UserAgent:    envOrDefault("HKO_USER_AGENT", "hko-rainfall-monitor/1.0"),
		FetchTimeout: fetchTimeout,

		UpdateInterval: time.Duration(intervalMinutes) * time.Minute,
		RetentionHours: retentionHours,
		DataDir:        envOrDefault("DATA_DIR", "data"),
		DumpSnapshots:  os.Getenv("DUMP_SNAPSHOTS") == "true",

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "rainfall-snapshots"),
		KafkaEnabled: kafkaEnabled,
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("HKO_BASE_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

// Retention returns the history retention window as a duration.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	v := envOrDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func parseBrokers(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
