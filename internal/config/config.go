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
// One Config serves both entrypoints: cmd/etl uses the Kafka, table, and
// notification settings; cmd/fetch uses the bucket and forecast settings.
type Config struct {
	KafkaBrokers      []string
	KafkaTriggerTopic string
	KafkaGroupID      string
	HTTPAddr          string
	LogLevel          string
	LogFormat         string
	ShutdownTimeout   time.Duration

	RawBucket string
	RawPrefix string
	TableName string

	// Notification configuration. An empty ARN disables that channel.
	StatusTopicARN string
	StormTopicARN  string
	StormThreshold float64

	// Forecast fetch configuration.
	DefaultLocation   string
	WeatherAPIBaseURL string
	LocationLat       float64
	LocationLon       float64
	Timezone          string
	ForecastDays      int
	FetchTimeout      time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first; real
// environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("OPENMETEO_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	threshold, err := parseStormThreshold()
	if err != nil {
		return nil, err
	}

	lat, err := parseFloat("LOCATION_LAT", "55.9486")
	if err != nil {
		return nil, err
	}
	lon, err := parseFloat("LOCATION_LON", "-3.1999")
	if err != nil {
		return nil, err
	}

	forecastDays, err := parseForecastDays()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:      parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTriggerTopic: envOrDefault("KAFKA_TRIGGER_TOPIC", "raw-object-events"),
		KafkaGroupID:      envOrDefault("KAFKA_GROUP_ID", "weather-risk-etl"),
		HTTPAddr:          envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		LogFormat:         envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:   shutdownTimeout,

		RawBucket: os.Getenv("RAW_BUCKET_NAME"),
		RawPrefix: envOrDefault("RAW_BUCKET_PREFIX", "raw/"),
		TableName: os.Getenv("WEATHERRISK_TABLE_NAME"),

		StatusTopicARN: os.Getenv("STATUS_TOPIC_ARN"),
		StormTopicARN:  os.Getenv("STORM_TOPIC_ARN"),
		StormThreshold: threshold,

		DefaultLocation:   envOrDefault("DEFAULT_LOCATION", "Edinburgh"),
		WeatherAPIBaseURL: envOrDefault("WEATHER_API_BASE_URL", "https://api.open-meteo.com/v1/forecast"),
		LocationLat:       lat,
		LocationLon:       lon,
		Timezone:          envOrDefault("TIMEZONE", "GMT"),
		ForecastDays:      forecastDays,
		FetchTimeout:      fetchTimeout,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaTriggerTopic == "" {
		return nil, errors.New("KAFKA_TRIGGER_TOPIC is required")
	}
	if cfg.RawBucket == "" {
		return nil, errors.New("RAW_BUCKET_NAME is required")
	}
	if cfg.TableName == "" {
		return nil, errors.New("WEATHERRISK_TABLE_NAME is required")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(envOrDefault(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseStormThreshold() (float64, error) {
	v, err := strconv.ParseFloat(envOrDefault("STORM_ALERT_THRESHOLD", "0.8"), 64)
	if err != nil || v < 0 || v > 1 {
		return 0, errors.New("invalid STORM_ALERT_THRESHOLD: must be a number in [0,1]")
	}
	return v, nil
}

func parseForecastDays() (int, error) {
	n, err := strconv.Atoi(envOrDefault("FORECAST_DAYS", "1"))
	if err != nil || n < 1 || n > 16 {
		return 0, errors.New("invalid FORECAST_DAYS: must be an integer in [1,16]")
	}
	return n, nil
}
