package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
service_name = "contracts"
environment = "staging"

[http]
host = "127.0.0.1"
port = 9000

[grpc]
port = 9001

[database]
driver = "mysql"
dsn = "user:pass@tcp(localhost:3306)/options?parseTime=true"

[kafka]
brokers = ["localhost:9092"]
topic = "options.contract.events"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "contracts", cfg.ServiceName)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr())
	assert.Equal(t, 9001, cfg.GRPC.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.True(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadWithDefaults_NoFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "contracts", cfg.ServiceName)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "options.contract.events", cfg.Kafka.Topic)
	assert.Equal(t, 100, cfg.Outbox.BatchSize)
}

func TestLoadWithDefaults_EnvOverride(t *testing.T) {
	t.Setenv("APP_HTTP_PORT", "18080")
	cfg, err := LoadWithDefaults(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, 18080, cfg.HTTP.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing service name", func(c *Config) { c.ServiceName = "" }, true},
		{"bad http port", func(c *Config) { c.HTTP.Port = 70000 }, true},
		{"bad grpc port", func(c *Config) { c.GRPC.Port = 0 }, true},
		{"mysql without dsn", func(c *Config) { c.Database = DatabaseConfig{Driver: "mysql"} }, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"kafka without topic", func(c *Config) { c.Kafka = KafkaConfig{Brokers: []string{"b:9092"}} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				ServiceName: "contracts",
				HTTP:        HTTPConfig{Port: 8080},
				GRPC:        GRPCConfig{Port: 50051},
				Database:    DatabaseConfig{Driver: "sqlite"},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "dev", cfg.Environment)
			}
		})
	}
}
