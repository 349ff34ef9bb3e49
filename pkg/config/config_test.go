package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	c, err := Parse([]byte("environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "test", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "https://api.mercadobitcoin.net", c.MercadoBitcoin.BaseURL)
	assert.Equal(t, 30*time.Second, c.MercadoBitcoin.Timeout)
	assert.Equal(t, SnapshotBackendNone, c.Snapshots.Backend)
	assert.Equal(t, CacheNone, c.Cache.Type)
	assert.Equal(t, -1, c.Kafka.RequiredAcks)
	assert.True(t, c.Metrics.Enabled)
}

func TestParse_Overrides(t *testing.T) {
	c, err := Parse([]byte(`
environment: production
server:
  port: 9090
mercadobitcoin:
  base_url: http://localhost:8081
  timeout: 5s
cache:
  type: memory
  ttl: 1m
snapshots:
  backend: clickhouse
`))
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "http://localhost:8081", c.MercadoBitcoin.BaseURL)
	assert.Equal(t, 5*time.Second, c.MercadoBitcoin.Timeout)
	assert.Equal(t, time.Minute, c.Cache.TTL)
	assert.Equal(t, SnapshotBackendClickHouse, c.Snapshots.Backend)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"bad backend":   "snapshots:\n  backend: s3\n",
		"bad cache":     "cache:\n  type: disk\n",
		"relative url":  "mercadobitcoin:\n  base_url: /api\n",
		"bad port":      "server:\n  port: 70000\n",
		"kafka brokers": "snapshots:\n  backend: kafka\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TAPI_ID":          "id",
		"TAPI_SECRET":      "secret",
		"MB_BASE_URL":      "http://mock:1080",
		"SERVER_PORT":      "9000",
		"LOG_LEVEL":        "debug",
		"SNAPSHOT_BACKEND": "kafka",
		"CACHE_TYPE":       "redis",
		"KAFKA_BROKERS":    "k1:9092, k2:9092,",
		"KAFKA_TOPIC":      "positions",
		"REDIS_ADDR":       "redis:6379",
	}
	c := Default()
	require.NoError(t, c.ApplyEnv(func(k string) string { return env[k] }))
	require.NoError(t, c.Validate())

	assert.Equal(t, "id", c.MercadoBitcoin.TapiID)
	assert.Equal(t, "secret", c.MercadoBitcoin.TapiSecret)
	assert.Equal(t, "http://mock:1080", c.MercadoBitcoin.BaseURL)
	assert.Equal(t, 9000, c.Server.Port)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, SnapshotBackendKafka, c.Snapshots.Backend)
	assert.Equal(t, CacheRedis, c.Cache.Type)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, "positions", c.Kafka.Topic)
	assert.Equal(t, "redis:6379", c.Cache.Redis.Addr)
}

func TestApplyEnv_BadPort(t *testing.T) {
	c := Default()
	err := c.ApplyEnv(func(k string) string {
		if k == "SERVER_PORT" {
			return "http"
		}
		return ""
	})
	assert.Error(t, err)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Setenv("TAPI_ID", "from-env")
	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.MercadoBitcoin.TapiID)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: staging\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "staging", c.Environment)
}

func TestDefault_CredentialsBlank(t *testing.T) {
	c := Default()
	assert.Empty(t, c.MercadoBitcoin.TapiID)
	assert.Empty(t, c.MercadoBitcoin.TapiSecret)
}

func TestLoadWithEnv_EnvSatisfiesValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snapshots:\n  backend: kafka\n"), 0o600))
	t.Setenv("KAFKA_BROKERS", "localhost:9092")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9092"}, c.Kafka.Brokers)
}
