package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset source. ClickHouse is used when ClickHouseAddr is set,
	// otherwise DataBasePath is scanned.
	DataBasePath       string
	DataVariable       string
	ClickHouseAddr     []string
	ClickHouseDatabase string
	ClickHouseTable    string
	ClickHouseUser     string
	ClickHousePassword string

	// Pipeline constants.
	BoxcarWindow    int
	RefYearMargin   int
	ObservedPattern string

	// Optional Kafka request/result transport.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration
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

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	boxcar, err := parsePositiveInt("BOXCAR_WINDOW", 10)
	if err != nil {
		return nil, err
	}

	margin, err := parseNonNegativeInt("REF_YEAR_MARGIN", 5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataBasePath:       sharedcfg.EnvOrDefault("DATA_BASEPATH", "/srv/o3as/data"),
		DataVariable:       sharedcfg.EnvOrDefault("DATA_VARIABLE", "tco3_zm"),
		ClickHouseAddr:     sharedcfg.ParseBrokers(os.Getenv("CLICKHOUSE_ADDR")),
		ClickHouseDatabase: sharedcfg.EnvOrDefault("CLICKHOUSE_DATABASE", "o3as"),
		ClickHouseTable:    sharedcfg.EnvOrDefault("CLICKHOUSE_TABLE", "zonal_mean"),
		ClickHouseUser:     sharedcfg.EnvOrDefault("CLICKHOUSE_USER", "default"),
		ClickHousePassword: os.Getenv("CLICKHOUSE_PASSWORD"),

		BoxcarWindow:    boxcar,
		RefYearMargin:   margin,
		ObservedPattern: sharedcfg.EnvOrDefault("OBSERVED_PATTERN", "SBUV|observ"),

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "o3-return-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "o3-return-results"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "o3-ensemble-service"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}

	return cfg, nil
}

// UseClickHouse reports whether the dataset is read from ClickHouse.
func (c *Config) UseClickHouse() bool {
	return len(c.ClickHouseAddr) > 0
}

func parsePositiveInt(key string, def int) (int, error) {
	n, err := parseInt(key, def)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parseNonNegativeInt(key string, def int) (int, error) {
	n, err := parseInt(key, def)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: must be a non-negative integer", key)
	}
	return n, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
