package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"GRPC_PORT", "HTTP_PORT", "STORE_DRIVER", "KAFKA_BROKERS", "REDIS_URL", "MIGRATIONS_DIR"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, ":9090", cfg.GRPCAddr())
	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, "file://internal/infrastructure/postgres/migrations", cfg.MigrationsURL())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GRPC_PORT", "9191")
	t.Setenv("HTTP_PORT", "not-a-number")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,,")
	t.Setenv("KAFKA_TLS", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "false")
	t.Setenv("RATE_LIMIT_RPS", "25")

	cfg := Load()

	assert.Equal(t, 9191, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, StoreDriverMongo, cfg.StoreDriver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.TLS)
	assert.False(t, cfg.OTLPInsecure)
	assert.Equal(t, 25, cfg.RateLimitRPS)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Load()
		cfg.DB.Password = "secret"
		cfg.Auth.Secret = "jwt-secret"
		return cfg
	}

	require.NoError(t, valid().Validate())

	memory := valid()
	memory.StoreDriver = StoreDriverMemory
	memory.DB.Password = ""
	require.NoError(t, memory.Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing db password", func(c *Config) { c.DB.Password = "" }, "DB_PASSWORD"},
		{"mongo without uri", func(c *Config) { c.StoreDriver = StoreDriverMongo }, "MONGO_URI"},
		{"unknown driver", func(c *Config) { c.StoreDriver = "sqlite" }, "STORE_DRIVER"},
		{"no jwt key material", func(c *Config) { c.Auth.Secret = "" }, "JWT_SECRET"},
		{"half tls pair", func(c *Config) { c.TLSCertFile = "cert.pem" }, "TLS_CERT_FILE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
