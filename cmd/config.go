package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers           []string
	KafkaConsumerGroup     string
	KafkaAssignmentTopic   string
	KafkaDispatchedTopic   string
	KafkaOrderCreatedTopic string
	KafkaOrderUpdatedTopic string
	KafkaVendorStatusTopic string
	KafkaRealtimeTopic     string

	RequeueAfter    time.Duration
	RequeueSchedule string
	RequeueBatch    int
	RelaySchedule   string
	RelayBatch      int

	LogLevel slog.Level
}

// LoadConfig reads configuration in order: .env (if present), environment,
// then command-line flags in args.
func LoadConfig(args []string) (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var parseErrs []error
	cfg := Config{
		HTTPPort:               env("HTTP_PORT", "8080"),
		DBHost:                 env("DB_HOST", "localhost"),
		DBPort:                 env("DB_PORT", "5432"),
		DBUser:                 env("DB_USER", "postgres"),
		DBPassword:             env("DB_PASSWORD", ""),
		DBName:                 env("DB_NAME", "dispatch"),
		DBSslMode:              env("DB_SSLMODE", "disable"),
		RedisAddr:              env("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          env("REDIS_PASSWORD", ""),
		KafkaBrokers:           splitList(env("KAFKA_BROKERS", "localhost:9092")),
		KafkaConsumerGroup:     env("KAFKA_CONSUMER_GROUP", "dispatch-engine"),
		KafkaAssignmentTopic:   env("KAFKA_ASSIGNMENT_TOPIC", "order-assignment"),
		KafkaDispatchedTopic:   env("KAFKA_DISPATCHED_TOPIC", "order-dispatched"),
		KafkaOrderCreatedTopic: env("KAFKA_ORDER_CREATED_TOPIC", "order-created"),
		KafkaOrderUpdatedTopic: env("KAFKA_ORDER_UPDATED_TOPIC", "order-updated"),
		KafkaVendorStatusTopic: env("KAFKA_VENDOR_STATUS_TOPIC", "vendor-status-changed"),
		KafkaRealtimeTopic:     env("KAFKA_REALTIME_TOPIC", "realtime-updates"),
		RequeueSchedule:        env("REQUEUE_SCHEDULE", "@every 30s"),
		RelaySchedule:          env("RELAY_SCHEDULE", "@every 10s"),
	}
	cfg.RedisDB = envInt("REDIS_DB", 0, &parseErrs)
	cfg.RequeueAfter = envDuration("REQUEUE_AFTER", 2*time.Minute, &parseErrs)
	cfg.RequeueBatch = envInt("REQUEUE_BATCH", 100, &parseErrs)
	cfg.RelayBatch = envInt("RELAY_BATCH", 100, &parseErrs)
	if err := cfg.LogLevel.UnmarshalText([]byte(env("LOG_LEVEL", "INFO"))); err != nil {
		parseErrs = append(parseErrs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if err := errors.Join(parseErrs...); err != nil {
		return Config{}, err
	}

	flags := pflag.NewFlagSet("dispatch", pflag.ContinueOnError)
	flags.StringVarP(&cfg.HTTPPort, "http-port", "p", cfg.HTTPPort, "port to listen on")
	flags.StringVar(&cfg.DBHost, "db-host", cfg.DBHost, "postgres host")
	flags.StringVar(&cfg.DBPort, "db-port", cfg.DBPort, "postgres port")
	flags.StringVar(&cfg.DBName, "db-name", cfg.DBName, "postgres database")
	flags.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address")
	flags.StringSliceVar(&cfg.KafkaBrokers, "kafka-brokers", cfg.KafkaBrokers, "comma-separated kafka brokers")
	flags.StringVar(&cfg.KafkaConsumerGroup, "kafka-group", cfg.KafkaConsumerGroup, "kafka consumer group")
	flags.DurationVar(&cfg.RequeueAfter, "requeue-after", cfg.RequeueAfter, "age after which a pending order is requeued")
	logLevel := flags.String("log-level", cfg.LogLevel.String(), "DEBUG, INFO, WARN or ERROR")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(*logLevel)); err != nil {
		return Config{}, fmt.Errorf("log-level: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var result []error
	if port, err := strconv.Atoi(c.HTTPPort); err != nil || port <= 0 || port > 65535 {
		result = append(result, fmt.Errorf("invalid HTTP_PORT: %q", c.HTTPPort))
	}
	if c.DBHost == "" || c.DBName == "" || c.DBUser == "" {
		result = append(result, errors.New("DB_HOST, DB_NAME and DB_USER are required"))
	}
	if c.RedisAddr == "" {
		result = append(result, errors.New("REDIS_ADDR is required"))
	}
	if len(c.KafkaBrokers) == 0 {
		result = append(result, errors.New("KAFKA_BROKERS is required"))
	}
	if c.KafkaConsumerGroup == "" || c.KafkaAssignmentTopic == "" || c.KafkaDispatchedTopic == "" ||
		c.KafkaOrderCreatedTopic == "" || c.KafkaOrderUpdatedTopic == "" ||
		c.KafkaVendorStatusTopic == "" || c.KafkaRealtimeTopic == "" {
		result = append(result, errors.New("kafka consumer group and topics are required"))
	}
	if c.RequeueAfter <= 0 {
		result = append(result, fmt.Errorf("invalid REQUEUE_AFTER: %s", c.RequeueAfter))
	}
	if c.RequeueBatch <= 0 || c.RelayBatch <= 0 {
		result = append(result, errors.New("REQUEUE_BATCH and RELAY_BATCH must be positive"))
	}
	return errors.Join(result...)
}

// DSN is the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(key string, fallback int, errs *[]error) int {
	raw := env(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := env(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
