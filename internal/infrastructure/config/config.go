package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MongoConfig struct {
	URI      string
	Database string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	TLS     bool
}

type RedisConfig struct {
	// URL is empty when rule changes are not fanned out to other replicas.
	URL     string
	Channel string
}

type AuthConfig struct {
	Secret        string
	PublicKey     string
	PublicKeyFile string
	Issuer        string
}

type Config struct {
	GRPCPort       int
	GRPCReflection bool
	HTTPPort       int
	ServiceName    string
	LogLevel       string
	LogFormat      string
	StoreDriver    string
	DB             DatabaseConfig
	Mongo          MongoConfig
	Kafka          KafkaConfig
	Redis          RedisConfig
	Auth           AuthConfig
	OTLPEndpoint   string
	OTLPInsecure   bool
	MigrationsDir  string
	RateLimitRPS   int
	TLSCertFile    string
	TLSKeyFile     string
}

// Validate reports the first setting that makes the service unable to start.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DB.Password == "" {
			return fmt.Errorf("DB_PASSWORD environment variable is required")
		}
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI environment variable is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Auth.Secret == "" && c.Auth.PublicKey == "" && c.Auth.PublicKeyFile == "" {
		return fmt.Errorf("one of JWT_SECRET, JWT_PUBLIC_KEY or JWT_PUBLIC_KEY_FILE is required")
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	return nil
}

func Load() Config {
	return Config{
		GRPCPort:       getEnvInt("GRPC_PORT", 9090),
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),
		HTTPPort:       getEnvInt("HTTP_PORT", 8080),
		ServiceName:    getEnv("SERVICE_NAME", "collections-service"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "collections"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "collections"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", ""),
			Database: getEnv("MONGO_DATABASE", "collections"),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "collections.debt-cases"),
			TLS:     getEnvBool("KAFKA_TLS", false),
		},
		Redis: RedisConfig{
			URL:     getEnv("REDIS_URL", ""),
			Channel: getEnv("REDIS_RULES_CHANNEL", "collections:transition-rules:changed"),
		},
		Auth: AuthConfig{
			Secret:        getEnv("JWT_SECRET", ""),
			PublicKey:     getEnv("JWT_PUBLIC_KEY", ""),
			PublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
			Issuer:        getEnv("JWT_ISSUER", "collections-identity"),
		},
		OTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:  getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "internal/infrastructure/postgres/migrations"),
		RateLimitRPS:  getEnvInt("RATE_LIMIT_RPS", 100),
		TLSCertFile:   getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:    getEnv("TLS_KEY_FILE", ""),
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// MigrationsURL is the golang-migrate source for MigrationsDir.
func (c Config) MigrationsURL() string {
	return "file://" + c.MigrationsDir
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
