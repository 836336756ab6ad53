package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	REST    RESTConfig
	Logging LoggingConfig
	Kafka   KafkaConfig
	Redis   RedisConfig
	Session SessionConfig
	Metrics MetricsConfig
}

type ServerConfig struct {
	Port string
}

type RESTConfig struct {
	BaseURL string
	Timeout time.Duration
}

type LoggingConfig struct {
	Directory string
	Level     string
	Format    string
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
	Topics  []string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis session store should be used.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type SessionConfig struct {
	CookieName string
	TokenKey   string
	LoginPath  string
	File       string
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from the environment, applying defaults for unset values.
func Load() (*Config, error) {
	timeout, err := durationEnv("REST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	metricsEnabled, err := boolEnv("METRICS_ENABLED", true)
	if err != nil {
		return nil, err
	}

	brokers := csvEnv("KAFKA_BROKERS")
	if len(brokers) == 0 {
		brokers = csvEnv("KAFKA_BROKER")
	}
	topics := csvEnv("KAFKA_TOPICS")
	if len(topics) == 0 {
		topics = []string{"bookings.events", "payments.events"}
	}

	return &Config{
		Server: ServerConfig{Port: stringEnv("PORT", "8090")},
		REST: RESTConfig{
			BaseURL: strings.TrimRight(stringEnv("REST_BASE_URL", "http://localhost:8000"), "/"),
			Timeout: timeout,
		},
		Logging: LoggingConfig{
			Directory: stringEnv("LOG_DIRECTORY", "./logs"),
			Level:     stringEnv("LOG_LEVEL", "info"),
			Format:    stringEnv("LOG_FORMAT", "text"),
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			GroupID: stringEnv("KAFKA_GROUP_ID", "resort-admin"),
			Topics:  topics,
		},
		Redis: RedisConfig{
			Addr:     stringEnv("REDIS_ADDR", ""),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Session: SessionConfig{
			CookieName: stringEnv("SESSION_COOKIE", "admin_sid"),
			TokenKey:   stringEnv("SESSION_KEY", "admin_token"),
			LoginPath:  stringEnv("LOGIN_PATH", "/admin/login"),
			File:       stringEnv("ADMIN_SESSION_FILE", defaultSessionFile()),
		},
		Metrics: MetricsConfig{
			Enabled: metricsEnabled,
			Path:    stringEnv("METRICS_PATH", "/metrics"),
		},
	}, nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".resort-admin", "session.json")
	}
	return filepath.Join(home, ".resort-admin", "session.json")
}

func stringEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func csvEnv(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return value, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
